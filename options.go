package wallgeom

// Engine configuration defaults.
const (
	// DefaultMiterLimit bounds the miter apex distance as a multiple of
	// half the wall thickness.
	DefaultMiterLimit = 8.0

	// DefaultDocumentPrecision is the document precision floor in
	// millimeters.
	DefaultDocumentPrecision = 0.1
)

// Config holds the engine's explicit configuration. The engine consults
// no global state: everything it needs arrives here.
type Config struct {
	DocumentPrecision float64
	MiterLimit        float64
	DefaultJoin       JoinType
	RepairEnabled     bool
	WallTypes         map[WallType]float64
	Monitor           Monitor
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		DocumentPrecision: DefaultDocumentPrecision,
		MiterLimit:        DefaultMiterLimit,
		DefaultJoin:       JoinMiter,
		RepairEnabled:     true,
		WallTypes:         DefaultWallTypes(),
		Monitor:           nopMonitor{},
	}
}

// Option configures an Engine during creation.
//
// Example:
//
//	eng := wallgeom.NewEngine(
//	    wallgeom.WithDocumentPrecision(0.01),
//	    wallgeom.WithMiterLimit(4),
//	)
type Option func(*Config)

// WithDocumentPrecision sets the document precision floor.
func WithDocumentPrecision(p float64) Option {
	return func(c *Config) {
		if p > 0 {
			c.DocumentPrecision = p
		}
	}
}

// WithMiterLimit sets the miter limit.
func WithMiterLimit(limit float64) Option {
	return func(c *Config) {
		if limit > 0 {
			c.MiterLimit = limit
		}
	}
}

// WithDefaultJoin sets the join type used when a wall specifies none.
func WithDefaultJoin(j JoinType) Option {
	return func(c *Config) {
		c.DefaultJoin = j
	}
}

// WithRepair enables or disables geometry repair.
func WithRepair(enabled bool) Option {
	return func(c *Config) {
		c.RepairEnabled = enabled
	}
}

// WithWallTypes replaces the {wall type -> thickness} table.
func WithWallTypes(table map[WallType]float64) Option {
	return func(c *Config) {
		if len(table) > 0 {
			c.WallTypes = table
		}
	}
}

// WithMonitor installs an operation monitor.
func WithMonitor(m Monitor) Option {
	return func(c *Config) {
		if m != nil {
			c.Monitor = m
		}
	}
}
