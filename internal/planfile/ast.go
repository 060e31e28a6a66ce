package planfile

// Plan represents a complete wall plan file: an optional document
// precision followed by wall declarations.
type Plan struct {
	Statements []*Statement `parser:"@@*"`
}

// Statement is one top-level declaration.
type Statement struct {
	Precision *Precision `parser:"  @@"`
	Wall      *Wall      `parser:"| @@"`
}

// Precision sets the document precision in millimeters.
// Example: precision 0.1
type Precision struct {
	Value float64 `parser:"KwPrecision @Number"`
}

// Wall declares one wall: a name, optional type and thickness, and a
// baseline of at least two coordinate pairs.
// Example: wall entry type zone thickness 200 { (0,0) (5000,0) }
type Wall struct {
	Name      string   `parser:"KwWall @Ident"`
	Type      string   `parser:"( KwType @Ident )?"`
	Thickness *float64 `parser:"( KwThickness @Number )?"`
	Closed    bool     `parser:"@KwClosed?"`
	Points    []*Coord `parser:"LBrace @@ @@+ RBrace"`
}

// Coord is a coordinate pair in document millimeters.
type Coord struct {
	X float64 `parser:"LParen @Number"`
	Y float64 `parser:"Comma @Number RParen"`
}

// DocumentPrecision returns the declared precision, or 0 when the plan
// does not set one.
func (p *Plan) DocumentPrecision() float64 {
	for _, s := range p.Statements {
		if s.Precision != nil {
			return s.Precision.Value
		}
	}
	return 0
}

// Walls returns the wall declarations in file order.
func (p *Plan) Walls() []*Wall {
	var walls []*Wall
	for _, s := range p.Statements {
		if s.Wall != nil {
			walls = append(walls, s.Wall)
		}
	}
	return walls
}
