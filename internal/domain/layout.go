package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LayoutFormatType selects a flat numbering scheme.
type LayoutFormatType string

const (
	LayoutFloorUnit  LayoutFormatType = "floorUnit"
	LayoutSequential LayoutFormatType = "sequential"
	LayoutGroundUnit LayoutFormatType = "groundUnit"
	LayoutVertical   LayoutFormatType = "vertical"
)

// LayoutFormat describes a numbering scheme for display and selection.
type LayoutFormat struct {
	Type    LayoutFormatType
	Label   string
	Example string
}

// LayoutFormats is the list of supported numbering schemes.
var LayoutFormats = []LayoutFormat{
	{Type: LayoutFloorUnit, Label: "Floor + Unit", Example: "101, 102, 201, 202"},
	{Type: LayoutSequential, Label: "Sequential", Example: "1, 2, 3, 4"},
	{Type: LayoutGroundUnit, Label: "Ground + Floor + Unit", Example: "G1, G2, 101, 102"},
	{Type: LayoutVertical, Label: "Vertical", Example: "101, 201, 102, 202"},
}

// FindLayoutFormat resolves a selector against the format list by type or label.
func FindLayoutFormat(formats []LayoutFormat, selector string) (LayoutFormat, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return LayoutFormat{}, fmt.Errorf("%w: no format selected", ErrInvalidFormat)
	}

	for _, f := range formats {
		if string(f.Type) == selector || strings.EqualFold(f.Label, selector) {
			return f, nil
		}
	}

	return LayoutFormat{}, fmt.Errorf("%w: %q", ErrInvalidFormat, selector)
}

// FloorLayout is one floor and its flat numbers in insertion order. Floor is the key
// used in flat records ("1", "G"); Label is its display form.
type FloorLayout struct {
	Floor string
	Label string
	Flats []string
}

// Layout is the generated floor to flat numbering of a wing.
type Layout struct {
	Format   LayoutFormat
	Floors   []FloorLayout
	Sequence []string
}

// FlatCount returns the number of generated flats.
func (l *Layout) FlatCount() int {
	return len(l.Sequence)
}

// Records builds the default flat record for every generated flat.
func (l *Layout) Records(society, wing string, now time.Time) []*Flat {
	flats := make([]*Flat, 0, l.FlatCount())
	for _, floor := range l.Floors {
		for _, number := range floor.Flats {
			flats = append(flats, NewFlat(FlatKey{
				Society: society,
				Wing:    wing,
				Floor:   floor.Floor,
				Flat:    number,
			}, now))
		}
	}
	return flats
}

// FloorLabel renders the display key of a floor.
func FloorLabel(floor string) string {
	return "Floor " + floor
}

// GenerateLayout produces the flat numbering of a wing.
//
//	floorUnit   floors 1..N, flat "{floor}0{unit}"
//	sequential  floors 1..N, flats numbered 1.. across floors
//	groundUnit  floors 0..N-1, floor 0 labelled G with flats "G{unit}"
//	vertical    as floorUnit, generated unit by unit
func GenerateLayout(totalFloors, unitsPerFloor, selector string, formats []LayoutFormat) (*Layout, error) {
	floors, err := ParsePositiveInt("totalFloors", totalFloors, MaxFloors)
	if err != nil {
		return nil, err
	}

	units, err := ParsePositiveInt("unitsPerFloor", unitsPerFloor, MaxUnitsPerFloor)
	if err != nil {
		return nil, err
	}

	format, err := FindLayoutFormat(formats, selector)
	if err != nil {
		return nil, err
	}

	b := newLayoutBuilder(format)

	switch format.Type {
	case LayoutFloorUnit:
		for f := 1; f <= floors; f++ {
			for u := 1; u <= units; u++ {
				if err := b.add(strconv.Itoa(f), floorUnitNumber(f, u)); err != nil {
					return nil, err
				}
			}
		}

	case LayoutSequential:
		counter := 1
		for f := 1; f <= floors; f++ {
			for u := 1; u <= units; u++ {
				if err := b.add(strconv.Itoa(f), strconv.Itoa(counter)); err != nil {
					return nil, err
				}
				counter++
			}
		}

	case LayoutGroundUnit:
		for f := 0; f < floors; f++ {
			for u := 1; u <= units; u++ {
				floor, number := strconv.Itoa(f), floorUnitNumber(f, u)
				if f == 0 {
					floor, number = "G", "G"+strconv.Itoa(u)
				}
				if err := b.add(floor, number); err != nil {
					return nil, err
				}
			}
		}

	case LayoutVertical:
		for f := 1; f <= floors; f++ {
			b.floor(strconv.Itoa(f))
		}
		for u := 1; u <= units; u++ {
			for f := 1; f <= floors; f++ {
				if err := b.add(strconv.Itoa(f), floorUnitNumber(f, u)); err != nil {
					return nil, err
				}
			}
		}

	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, format.Type)
	}

	return b.layout, nil
}

func floorUnitNumber(floor, unit int) string {
	return strconv.Itoa(floor) + "0" + strconv.Itoa(unit)
}

type layoutBuilder struct {
	layout  *Layout
	byFloor map[string]int
	seen    map[string]bool
}

func newLayoutBuilder(format LayoutFormat) *layoutBuilder {
	return &layoutBuilder{
		layout:  &Layout{Format: format},
		byFloor: make(map[string]int),
		seen:    make(map[string]bool),
	}
}

func (b *layoutBuilder) floor(floor string) int {
	idx, ok := b.byFloor[floor]
	if !ok {
		idx = len(b.layout.Floors)
		b.byFloor[floor] = idx
		b.layout.Floors = append(b.layout.Floors, FloorLayout{Floor: floor, Label: FloorLabel(floor)})
	}
	return idx
}

func (b *layoutBuilder) add(floor, number string) error {
	if b.seen[number] {
		return fmt.Errorf("%w: %s", ErrLayoutCollision, number)
	}
	b.seen[number] = true

	idx := b.floor(floor)
	b.layout.Floors[idx].Flats = append(b.layout.Floors[idx].Flats, number)
	b.layout.Sequence = append(b.layout.Sequence, number)
	return nil
}
