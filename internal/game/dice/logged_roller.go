package dice

import "go.uber.org/zap"

// Roller wraps a Source and logs every value it produces at debug level.
//
// Roller itself satisfies Source, so it can be injected anywhere the rules
// engine expects one.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that draws from src and logs to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Intn draws from the wrapped Source and logs the face rolled.
func (r *Roller) Intn(n int) int {
	v := r.src.Intn(n)
	r.logger.Debug("die rolled",
		zap.Int("sides", n),
		zap.Int("face", v+1),
	)
	return v
}

// D10 rolls a logged d10.
func (r *Roller) D10() int {
	return D10(r)
}

// RollExpr parses expr, rolls it and logs the full result.
//
// Postcondition: Returns a RollResult or a parse error.
func (r *Roller) RollExpr(expr string) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	result := Roll(e, r.src)
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result, nil
}
