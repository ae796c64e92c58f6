// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package convert parses loosely typed input such as query parameters.
package convert

import "strconv"

// ToIntD converts a string to an int, returning def when the string is empty
// or not a number.
func ToIntD(str string, def int) int {
	if str == "" {
		return def
	}

	if v, err := strconv.Atoi(str); err == nil {
		return v
	}

	return def
}
