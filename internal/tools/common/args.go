package common

import (
	"fmt"
	"time"
)

// StringArg returns the string argument name, or "" when it is absent or not
// a string.
func StringArg(args map[string]interface{}, name string) string {
	if v, ok := args[name].(string); ok {
		return v
	}
	return ""
}

// TimeArg parses the optional RFC3339 argument name. ok is false when the
// argument is absent or empty.
func TimeArg(args map[string]interface{}, name string) (t time.Time, ok bool, err error) {
	raw := StringArg(args, name)
	if raw == "" {
		return time.Time{}, false, nil
	}
	t, err = time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid %s %q: expected RFC3339", name, raw)
	}
	return t, true, nil
}
