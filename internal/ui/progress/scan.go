package progress

import (
	"fmt"

	"github.com/raphi011/prj/internal/scanner"
)

// Discoveries drains ch, reporting each discovered project on s, and returns
// the number of events seen once ch is closed. s may be nil.
func Discoveries(ch <-chan scanner.Discovery, s *Spinner) int {
	n := 0
	for d := range ch {
		n++
		if s != nil {
			s.UpdateMessage(fmt.Sprintf("scanning... %d found (%s)", n, d.Project.Name))
		}
	}
	return n
}
