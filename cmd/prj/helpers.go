package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/prj/internal/config"
	"github.com/raphi011/prj/internal/project"
	"github.com/raphi011/prj/internal/registry"
)

var errNoConfig = errors.New("no configuration in context")

// configFrom returns the config stored in ctx.
func configFrom(ctx context.Context) (*config.Config, error) {
	cfg := config.FromContext(ctx)
	if cfg == nil {
		return nil, errNoConfig
	}
	return cfg, nil
}

// loadRegistry loads the project registry and returns it with its path.
func loadRegistry(ctx context.Context) (*registry.Registry, string, error) {
	cfg, err := configFrom(ctx)
	if err != nil {
		return nil, "", err
	}
	path, err := cfg.RegistryPath()
	if err != nil {
		return nil, "", err
	}
	reg, err := registry.Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("load registry: %w", err)
	}
	return reg, path, nil
}

// parseMeta converts key=value pairs into a map.
func parseMeta(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	meta := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid metadata %q: expected key=value", p)
		}
		meta[k] = v
	}
	return meta, nil
}

// parseTypes converts --type values into project types.
func parseTypes(values []string) ([]project.Type, error) {
	var types []project.Type
	for _, v := range values {
		t, err := project.ParseType(v)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

// absPaths makes every path absolute and clean.
func absPaths(paths []string) ([]string, error) {
	out := make([]string, len(paths))
	for i, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		out[i] = abs
	}
	return out, nil
}

// completeProjects offers registered project names for shell completion.
func completeProjects(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	reg, _, err := loadRegistry(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var names []string
	for _, p := range reg.Projects {
		if strings.HasPrefix(p.Name, toComplete) {
			names = append(names, p.Name+"\t"+p.Path)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func completeTypes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	names := make([]string, len(project.Types))
	for i, t := range project.Types {
		names[i] = string(t)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
