// Package doctor diagnoses and repairs prj's persisted state.
//
// Two files are checked:
//
//   - Registry issues: records that fail validation, paths that no longer
//     exist or are not directories, projects whose markers changed so they
//     now classify as a different type, and names shared by several
//     projects (which makes lookups by name ambiguous).
//
//   - History issues: recent entries whose directory is gone, and entries
//     that point at directories the registry does not know.
//
// # Usage
//
//	report, err := doctor.Run(ctx, doctor.Options{
//		RegistryPath: regPath,
//		HistoryPath:  histPath,
//		Fix:          true,
//	})
//
// Without Fix both files are only read. With Fix the registry and the
// history are locked, repaired and saved in one pass; every attempted
// repair is recorded in [Report.Results].
//
// Each [Issue] carries a [FixAction]. Issues with [FixNone] need a manual
// decision and are only reported.
package doctor
