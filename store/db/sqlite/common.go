package sqlite

import "strings"

func joinAnd(conds []string) string {
	return strings.Join(conds, " AND ")
}
