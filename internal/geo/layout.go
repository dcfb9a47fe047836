package geo

import (
	"os"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Layout is the static geographic configuration used for annotation.
type Layout struct {
	Boxes         []NamedBox `json:"boxes"`
	Networks      []Network  `json:"networks"`
	Neighborhoods []string   `json:"neighborhoods"`
}

// LoadLayout reads a layout YAML file.
//
// The document has three keys:
//
//	boxes:          name -> [[lat, lon], [lat, lon]]   (bottom-left, top-right)
//	networks:       name -> {stop name -> [lat, lon]}  (exactly two networks)
//	neighborhoods:  [keyword, ...]
//
// Mapping order in the file is preserved for boxes, networks and stops.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "geo: read layout %s", path)
	}
	return ParseLayout(data)
}

// ParseLayout parses a layout YAML document. See LoadLayout for the format.
func ParseLayout(data []byte) (*Layout, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "geo: parse layout")
	}
	if len(doc.Content) == 0 {
		return nil, eris.New("geo: layout is empty")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, eris.New("geo: layout root must be a mapping")
	}

	layout := &Layout{}
	err := eachPair(root, func(key string, val *yaml.Node) error {
		switch key {
		case "boxes":
			return eachPair(val, func(name string, v *yaml.Node) error {
				box, err := decodeBox(v)
				if err != nil {
					return eris.Wrapf(err, "box %q", name)
				}
				layout.Boxes = append(layout.Boxes, NamedBox{Name: name, Box: box})
				return nil
			})
		case "networks":
			return eachPair(val, func(name string, v *yaml.Node) error {
				n := Network{Name: name}
				err := eachPair(v, func(stop string, sv *yaml.Node) error {
					c, err := decodeCoordinate(sv)
					if err != nil {
						return eris.Wrapf(err, "stop %q", stop)
					}
					n.Stops = append(n.Stops, Stop{Name: stop, Coordinate: c})
					return nil
				})
				if err != nil {
					return eris.Wrapf(err, "network %q", name)
				}
				layout.Networks = append(layout.Networks, n)
				return nil
			})
		case "neighborhoods":
			if err := val.Decode(&layout.Neighborhoods); err != nil {
				return eris.Wrap(err, "neighborhoods")
			}
			lower := cases.Lower(language.Und)
			for i, kw := range layout.Neighborhoods {
				layout.Neighborhoods[i] = lower.String(kw)
			}
			return nil
		default:
			return nil
		}
	})
	if err != nil {
		return nil, eris.Wrap(err, "geo: parse layout")
	}

	if len(layout.Networks) != 2 {
		return nil, eris.Errorf("geo: layout must define exactly two stop networks, got %d", len(layout.Networks))
	}
	return layout, nil
}

// eachPair walks a mapping node in document order. A null node is an empty mapping.
func eachPair(n *yaml.Node, fn func(key string, val *yaml.Node) error) error {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return eris.Errorf("line %d: expected a mapping", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := fn(n.Content[i].Value, n.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func decodeCoordinate(n *yaml.Node) (Coordinate, error) {
	var pair []float64
	if err := n.Decode(&pair); err != nil {
		return Coordinate{}, eris.Wrapf(err, "line %d", n.Line)
	}
	if len(pair) != 2 {
		return Coordinate{}, eris.Errorf("line %d: expected [lat, lon], got %d values", n.Line, len(pair))
	}
	return Coordinate{Lat: pair[0], Lon: pair[1]}, nil
}

func decodeBox(n *yaml.Node) (Box, error) {
	if n.Kind != yaml.SequenceNode || len(n.Content) != 2 {
		return Box{}, eris.Errorf("line %d: expected [[lat, lon], [lat, lon]]", n.Line)
	}
	bl, err := decodeCoordinate(n.Content[0])
	if err != nil {
		return Box{}, err
	}
	tr, err := decodeCoordinate(n.Content[1])
	if err != nil {
		return Box{}, err
	}
	return Box{BottomLeft: bl, TopRight: tr}, nil
}
