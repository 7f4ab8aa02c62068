package types

import "fmt"

// ValidationWarning is one finding of descriptor validation. Critical
// warnings abort packaging; advisory ones are reported and ignored.
type ValidationWarning struct {
	Critical bool
	Elem     string
	Title    string
	Msg      string
}

func (w ValidationWarning) String() string {
	prefix := ""
	if w.Critical {
		prefix = "CRITICAL: "
	}
	return fmt.Sprintf("%s%s: %s - %s", prefix, w.Elem, w.Title, w.Msg)
}

func HasCritical(warnings []ValidationWarning) bool {
	for _, warning := range warnings {
		if warning.Critical {
			return true
		}
	}
	return false
}
