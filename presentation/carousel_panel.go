package presentation

import (
	"image"
	"path/filepath"

	"stylize-go/domain/preset"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	hidePaneLabel = "Hide Pane"
	showPaneLabel = "Show Pane"
)

// CarouselPanel is the collapsible side pane with the preset style and
// example result carousels. Tapping the style thumbnail selects it.
type CarouselPanel struct {
	container *fyne.Container
	pane      *fyne.Container
	toggleBtn *widget.Button

	styles  *ImageSlot
	results *ImageSlot

	// shownStyle is the preset path behind the style thumbnail on screen.
	shownStyle string
}

// NewCarouselPanel creates the pane. onSelectStyle receives the path of the
// style preset on screen when its thumbnail is tapped.
func NewCarouselPanel(thumbnailSize float32, onSelectStyle func(path string)) *CarouselPanel {
	p := &CarouselPanel{
		styles:  NewImageSlot("Preset Styles", "Loading presets...", thumbnailSize),
		results: NewImageSlot("Stylized Images", "Loading examples...", thumbnailSize),
	}
	p.styles.SetOnTapped(func() {
		if onSelectStyle != nil && p.shownStyle != "" {
			onSelectStyle(p.shownStyle)
		}
	})

	hint := widget.NewLabelWithStyle("Click a preset to use it as the style", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	p.pane = container.NewVBox(p.styles, hint, widget.NewSeparator(), p.results)
	p.toggleBtn = widget.NewButton(hidePaneLabel, p.Toggle)
	p.container = container.NewBorder(nil, p.toggleBtn, nil, nil, p.pane)

	return p
}

// Container returns the panel's container.
func (p *CarouselPanel) Container() *fyne.Container {
	return p.container
}

// Toggle hides or shows the carousels and relabels the toggle button.
func (p *CarouselPanel) Toggle() {
	if p.pane.Visible() {
		p.pane.Hide()
		p.toggleBtn.SetText(showPaneLabel)
	} else {
		p.pane.Show()
		p.toggleBtn.SetText(hidePaneLabel)
	}
	p.container.Refresh()
}

// IsExpanded reports whether the carousels are visible.
func (p *CarouselPanel) IsExpanded() bool {
	return p.pane.Visible()
}

// ShowThumbnail displays the thumbnail of the preset at path.
func (p *CarouselPanel) ShowThumbnail(carousel, path string, thumb image.Image) {
	slot := p.slot(carousel)
	if slot == nil {
		return
	}
	if slot == p.styles {
		p.shownStyle = path
	}
	slot.SetImage(thumb)
}

// ShowMissing replaces the thumbnail with a placeholder naming the missing file.
func (p *CarouselPanel) ShowMissing(carousel, path string) {
	slot := p.slot(carousel)
	if slot == nil {
		return
	}
	if slot == p.styles {
		p.shownStyle = ""
	}
	slot.SetPlaceholder(filepath.Base(path) + " unavailable")
}

func (p *CarouselPanel) slot(carousel string) *ImageSlot {
	switch carousel {
	case preset.StylesCarousel:
		return p.styles
	case preset.ResultsCarousel:
		return p.results
	default:
		return nil
	}
}
