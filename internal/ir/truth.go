package ir

// Truth is SQL's three-valued logic. Unknown models the effect of NULL on
// logical connectives: a comparison against NULL is neither true nor false.
type Truth uint8

const (
	False Truth = iota
	True
	Unknown
)

// String returns the SQL spelling of the truth value.
func (t Truth) String() string {
	switch t {
	case True:
		return "TRUE"
	case False:
		return "FALSE"
	default:
		return "UNKNOWN"
	}
}

// And returns the three-valued conjunction. False absorbs even against
// Unknown; the result is True only when both operands are True.
func And(a, b Truth) Truth {
	if a == False || b == False {
		return False
	}
	if a == True && b == True {
		return True
	}
	return Unknown
}

// Or returns the three-valued disjunction. True absorbs even against
// Unknown; the result is False only when both operands are False.
func Or(a, b Truth) Truth {
	if a == True || b == True {
		return True
	}
	if a == False && b == False {
		return False
	}
	return Unknown
}

// Not swaps True and False. Unknown stays Unknown: negating "we don't know"
// still tells us nothing.
func Not(t Truth) Truth {
	switch t {
	case True:
		return False
	case False:
		return True
	default:
		return Unknown
	}
}

// IsTrue reports whether t is the True variant. False and Unknown both
// yield false. This is exactly the test a WHERE clause applies: rows whose
// predicate is Unknown are dropped.
func (t Truth) IsTrue() bool {
	return t == True
}

// TruthFromBool lifts a Go bool into the definite truth values.
func TruthFromBool(b bool) Truth {
	if b {
		return True
	}
	return False
}
