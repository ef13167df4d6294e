package browser

import "github.com/starford/mealboard/internal/view"

// ToggleMenu flips the visibility of the category menu and returns the new state.
func (b *Browser) ToggleMenu(doc view.Surface) bool {
	return doc.Toggle(view.TargetMenu)
}

// CloseMenu hides the category menu.
func (b *Browser) CloseMenu(doc view.Surface) {
	doc.SetVisible(view.TargetMenu, false)
}
