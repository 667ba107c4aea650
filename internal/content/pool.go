package content

import "codeclash/internal/model"

// Pool returns the builtin coding-literacy exercise pool, used by cmd/seed
// to populate the store and as a fallback when the exercises collection is
// empty.
func Pool() []model.Exercise {
	return []model.Exercise{
		{
			Slug:   "array-index",
			Title:  "Off by one",
			Prompt: "nums = [4, 8, 15, 16]. What does nums[3] evaluate to?",
			Options: []string{
				"15",
				"16",
				"IndexError",
				"4",
			},
			Answer: 1,
			XP:     10,
		},
		{
			Slug:   "bool-or",
			Title:  "Short circuit",
			Prompt: "What does `false || true && false` evaluate to?",
			Options: []string{
				"true",
				"false",
				"It does not compile",
				"Depends on evaluation order",
			},
			Answer: 1,
			XP:     15,
		},
		{
			Slug:   "int-div",
			Title:  "Integer division",
			Prompt: "What is 7 / 2 when both operands are integers?",
			Options: []string{
				"3.5",
				"4",
				"3",
				"2",
			},
			Answer: 2,
			XP:     10,
		},
		{
			Slug:   "loop-count",
			Title:  "Loop bounds",
			Prompt: "How many times does `for i = 0; i < 5; i++` run its body?",
			Options: []string{
				"4",
				"5",
				"6",
				"Forever",
			},
			Answer: 1,
			XP:     10,
		},
		{
			Slug:   "mod-parity",
			Title:  "Even or odd",
			Prompt: "Which expression is true exactly when n is even?",
			Options: []string{
				"n % 2 == 1",
				"n / 2 == 0",
				"n % 2 == 0",
				"n & 2 == 0",
			},
			Answer: 2,
			XP:     15,
		},
		{
			Slug:   "nil-map",
			Title:  "Missing key",
			Prompt: "Reading a key that is not in a map/dictionary typically yields:",
			Options: []string{
				"The zero/default value or an error, depending on the language",
				"Always -1",
				"The closest key",
				"A random value",
			},
			Answer: 0,
			XP:     20,
		},
		{
			Slug:   "off-by-len",
			Title:  "Last element",
			Prompt: "For a list xs of length n, the last valid index is:",
			Options: []string{
				"n",
				"n - 1",
				"n + 1",
				"0",
			},
			Answer: 1,
			XP:     10,
		},
		{
			Slug:   "str-concat",
			Title:  "String plus number",
			Prompt: "In JavaScript, what is '2' + 2?",
			Options: []string{
				"4",
				"'22'",
				"NaN",
				"TypeError",
			},
			Answer: 1,
			XP:     15,
		},
		{
			Slug:   "swap-vars",
			Title:  "Swap",
			Prompt: "After a = 1; b = 2; a = b; b = a; what are a and b?",
			Options: []string{
				"a=2, b=1",
				"a=2, b=2",
				"a=1, b=2",
				"a=1, b=1",
			},
			Answer: 1,
			XP:     20,
		},
		{
			Slug:   "while-guard",
			Title:  "Unreachable loop",
			Prompt: "How often does the body of `while (false) { ... }` run?",
			Options: []string{
				"Once",
				"Never",
				"Forever",
				"Compiler dependent",
			},
			Answer: 1,
			XP:     10,
		},
		{
			Slug:   "zero-index",
			Title:  "First element",
			Prompt: "In zero-indexed languages, the first element of xs is:",
			Options: []string{
				"xs[1]",
				"xs[0]",
				"xs[-1]",
				"xs.first",
			},
			Answer: 1,
			XP:     10,
		},
		{
			Slug:   "zz-scope",
			Title:  "Shadowed variable",
			Prompt: "A variable declared inside a block with the same name as an outer one:",
			Options: []string{
				"Overwrites the outer variable",
				"Shadows the outer variable inside the block",
				"Causes a compile error everywhere",
				"Is hoisted above the outer one",
			},
			Answer: 1,
			XP:     20,
		},
	}
}
