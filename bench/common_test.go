package bench

const (
	nPos    = 100_000
	nPosVel = 100_000
)

type Position struct {
	X float64
	Y float64
}

type Velocity struct {
	X float64
	Y float64
}
