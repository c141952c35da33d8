package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged dice rolling.
// All rolls are logged at debug level with face values and totals.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Source returns the underlying randomness source.
func (r *Roller) Source() Source { return r.src }

// RollDie rolls a single die and logs the face at debug level.
//
// Postcondition: Return value is in [1, 6].
func (r *Roller) RollDie() int {
	face := RollDie(r.src)
	r.logger.Debug("die roll", zap.Int("face", face))
	return face
}

// RollPair rolls two dice and logs both faces and their total.
//
// Postcondition: Both return values are in [1, 6].
func (r *Roller) RollPair() (int, int) {
	a, b := RollPair(r.src)
	r.logger.Debug("dice pair roll",
		zap.Int("first", a),
		zap.Int("second", b),
		zap.Int("total", a+b),
	)
	return a, b
}
