package document

import "github.com/samui/samui/backend-go/internal/typeid"

// Containment scene layout.
const (
	ContainmentWidth  = 2000
	ContainmentHeight = 1000
)

// NewContainmentScene returns the drag-into-the-frame exercise: a dashed,
// fixed frame and two draggable black shapes placed to its right.
func NewContainmentScene() *SceneDoc {
	return &SceneDoc{
		ID:     typeid.NewSceneID(),
		Name:   "Containment",
		Width:  ContainmentWidth,
		Height: ContainmentHeight,
		Objects: []ObjectNode{
			{
				ID:     typeid.NewObjectID(),
				Type:   ObjectTypeCircle,
				X:      1400,
				Y:      200,
				Radius: 50,
				Style:  Style{Fill: "#000000"},
				// Dragged into the frame.
				Draggable: true,
			},
			{
				ID:     typeid.NewObjectID(),
				Type:   ObjectTypeRectangle,
				X:      300,
				Y:      200,
				Width:  400,
				Height: 300,
				Style: Style{
					Stroke:      "#808080",
					StrokeWidth: 5,
					Dash:        []float64{10, 8, 15, 9, 11, 13, 16, 14, 17, 20},
				},
			},
			{
				ID:        typeid.NewObjectID(),
				Type:      ObjectTypeRectangle,
				X:         1300,
				Y:         400,
				Width:     100,
				Height:    100,
				Style:     Style{Fill: "#000000"},
				Draggable: true,
			},
		},
	}
}
