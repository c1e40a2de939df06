package organize

// SetTrashFunc swaps the platform trash for the duration of a test
func SetTrashFunc(fn func(paths ...string) error) (restore func()) {
	prev := trashFunc
	trashFunc = fn
	return func() { trashFunc = prev }
}
