package memo

import "fmt"

// MemoizeI1O1 and friends wrap fn so that every distinct argument tuple is
// computed once while it stays in a table of up to 2*maxTableSize entries.
// Arguments must be comparable or implement fmt.Stringer.
// fn must be pure: its result may only depend on its arguments.
func MemoizeI1O1[I1 any, O1 any](fn func(I1) O1, maxTableSize uint32) func(I1) O1 {
	memoized := memoize(func(args ...any) O1 {
		return fn(args[0].(I1))
	}, maxTableSize)
	return func(i1 I1) O1 {
		return memoized(i1)
	}
}

func MemoizeI2O1[I1, I2 any, O1 any](fn func(I1, I2) O1, maxTableSize uint32) func(I1, I2) O1 {
	memoized := memoize(func(args ...any) O1 {
		return fn(args[0].(I1), args[1].(I2))
	}, maxTableSize)
	return func(i1 I1, i2 I2) O1 {
		return memoized(i1, i2)
	}
}

func MemoizeI3O1[I1, I2, I3 any, O1 any](fn func(I1, I2, I3) O1, maxTableSize uint32) func(I1, I2, I3) O1 {
	memoized := memoize(func(args ...any) O1 {
		return fn(args[0].(I1), args[1].(I2), args[2].(I3))
	}, maxTableSize)
	return func(i1 I1, i2 I2, i3 I3) O1 {
		return memoized(i1, i2, i3)
	}
}

func tableKey(i any) any {
	if stringer, ok := i.(fmt.Stringer); ok {
		return stringer.String()
	}
	return i
}

func memoize[O any](fn func(...any) O, maxTableSize uint32) func(...any) O {
	table := NewTrie[O](maxTableSize)
	return func(args ...any) O {
		keys := make([]any, len(args))
		for i, arg := range args {
			keys[i] = tableKey(arg)
		}
		if v, ok := table.Load(keys); ok {
			return v
		}
		v := fn(args...)
		table.Store(keys, v)
		return v
	}
}
