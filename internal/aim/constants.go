package aim

// Overlay geometry constants. Distances are in overlay pixels.

const (
	MinTableWidth  = 120.0
	MinTableHeight = 80.0

	CornerRadius  = 22.0
	PocketRadius  = 14.0 // pocket ring and p1/p2 handle visual radius
	HandleRadius  = 12.0 // hit target for picking up p1/p2
	GripSize      = 10.0
	SnapThreshold = 24.0 // nearest-pocket snap while carrying

	LockFactor   = 1.4 // lock radius as a multiple of the pocket radius
	UnlockFactor = 2.2 // unlock radius as a multiple of the lock radius

	TraceEpsilon      = 0.001
	BankBounces       = 2
	DoubleBankBounces = 4

	DefaultSurfaceWidth  = 1200.0
	DefaultSurfaceHeight = 800.0

	MinLineThickness = 1
	MaxLineThickness = 10
	MinOpacity       = 0.3
	MaxOpacity       = 1.0
)

// Tuning holds the distances that control snapping and hit testing.
type Tuning struct {
	PocketRadius  float64 `json:"pocket_radius"`
	HandleRadius  float64 `json:"handle_radius"`
	GripSize      float64 `json:"grip_size"`
	SnapThreshold float64 `json:"snap_threshold"`
	LockRadius    float64 `json:"lock_radius"`
	UnlockRadius  float64 `json:"unlock_radius"`
}

// DefaultTuning returns the stock overlay distances.
func DefaultTuning() Tuning {
	return TuningFor(PocketRadius, SnapThreshold)
}

// TuningFor derives lock and unlock radii from a pocket radius.
func TuningFor(pocketRadius, snapThreshold float64) Tuning {
	lock := pocketRadius * LockFactor
	return Tuning{
		PocketRadius:  pocketRadius,
		HandleRadius:  HandleRadius,
		GripSize:      GripSize,
		SnapThreshold: snapThreshold,
		LockRadius:    lock,
		UnlockRadius:  lock * UnlockFactor,
	}
}
