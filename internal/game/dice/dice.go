// Package dice provides the randomness abstraction and d6 roll helpers
// for the Rondo board game engine.
package dice

// Faces is the number of faces on a game die.
const Faces = 6

// Source is the randomness provider for dice rolls and board sampling.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// RollDie returns a single die face in [1, Faces] drawn from src.
//
// Precondition: src must be non-nil.
// Postcondition: Return value is in [1, 6].
func RollDie(src Source) int {
	return src.Intn(Faces) + 1
}

// RollPair returns two independent die faces drawn from src.
//
// Precondition: src must be non-nil.
// Postcondition: Both return values are in [1, 6].
func RollPair(src Source) (int, int) {
	return RollDie(src), RollDie(src)
}
