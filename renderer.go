package graveyard

import (
	"fmt"
	"sort"
)

// Render replaces the display's sprite and label layers with the scene's
// descriptors and refreshes the HUD readout. The replacement is full, not a
// reconciliation: the item count is small and fixed per refresh cycle.
// Missing mount points are skipped silently.
func Render(scene *Scene, d *Display) {
	if scene == nil || d == nil {
		return
	}

	if d.Sprites != nil {
		d.Sprites.Clear()
		all := make([]SpriteDescriptor, 0, len(scene.Sprites)+1)
		tower := scene.Tower
		tower.Seq = -1
		all = append(all, tower)
		all = append(all, scene.Sprites...)
		sort.SliceStable(all, func(a, b int) bool {
			if all[a].ZIndex != all[b].ZIndex {
				return all[a].ZIndex < all[b].ZIndex
			}
			return all[a].Seq < all[b].Seq
		})
		for _, sp := range all {
			d.Sprites.Nodes = append(d.Sprites.Nodes, SpriteNode{
				ID:     sp.ID,
				X:      sp.Box.X,
				Y:      sp.Box.Y,
				W:      sp.Box.W,
				H:      sp.Box.H,
				ZIndex: sp.ZIndex,
				Visual: sp.Visual,
				Style:  sp.Style,
				Tower:  sp.Tower,
			})
		}
	}

	if d.Labels != nil {
		d.Labels.Clear()
		for _, lb := range scene.Labels {
			d.Labels.Nodes = append(d.Labels.Nodes, LabelNode{
				SpriteID: lb.SpriteID,
				Text:     lb.Text,
				X:        lb.Pos.X,
				Y:        lb.Pos.Y,
				Side:     lb.Side,
				ZIndex:   lb.ZIndex,
			})
		}
	}

	if d.HUD != nil {
		d.HUD.Text = fmt.Sprintf("%d items | OK=%d WARN=%d ERROR=%d CRITICAL=%d",
			scene.HUD.Total, scene.HUD.OK, scene.HUD.Warn, scene.HUD.Error, scene.HUD.Critical)
	}
}
