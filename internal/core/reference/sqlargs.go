// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import "fmt"

// sqlArgs collects positional arguments while a statement is written.
type sqlArgs struct {
	values []any
}

// add appends a value and returns its placeholder. A placeholder may be
// written several times to reuse the same argument.
func (args *sqlArgs) add(value any) string {
	args.values = append(args.values, value)
	return fmt.Sprintf("$%d", len(args.values))
}

// list returns the collected arguments in placeholder order.
func (args *sqlArgs) list() []any {
	return args.values
}
