package presentation

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"stylize-go/core/command"
	"stylize-go/core/state"
	"stylize-go/domain/imageio"
	"stylize-go/domain/preset"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const (
	windowTitle     = "Style Transfer"
	description     = "Upload your image, choose a style, and transform it into art."
	footerText      = "Arbitrary image stylization with a pretrained network"
	contentLabel    = "1. Upload Content Image"
	styleLabel      = "2. Upload Style Image"
	stylizeLabel    = "3. Stylize"
	processingLabel = "Processing..."
	defaultSaveName = "stylized.png"
)

// MainWindow is the main application window.
type MainWindow struct {
	window fyne.Window
	bridge *UIEventBridge
	logger *slog.Logger

	// UI components - previews
	contentSlot *ImageSlot
	styleSlot   *ImageSlot
	resultSlot  *ImageSlot
	carousels   *CarouselPanel

	// UI components - controls
	contentBtn  *widget.Button
	styleBtn    *widget.Button
	stylizeBtn  *widget.Button
	cancelBtn   *widget.Button
	saveBtn     *widget.Button
	statusLabel *widget.Label

	// State
	state     state.WorkflowState
	hasResult bool

	// Cleanup
	onClosed    func()
	cleanupOnce sync.Once
}

// MainWindowConfig holds configuration for MainWindow.
type MainWindowConfig struct {
	App           fyne.App
	Bridge        *UIEventBridge
	Logger        *slog.Logger
	PreviewSize   float32
	ThumbnailSize float32
	// OnClosed runs once when the window is torn down, before the app quits.
	OnClosed func()
}

// NewMainWindow creates a new main window.
func NewMainWindow(cfg *MainWindowConfig) *MainWindow {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.PreviewSize <= 0 {
		cfg.PreviewSize = 350
	}
	if cfg.ThumbnailSize <= 0 {
		cfg.ThumbnailSize = 240
	}

	w := &MainWindow{
		window:   cfg.App.NewWindow(windowTitle),
		bridge:   cfg.Bridge,
		logger:   cfg.Logger.With("component", "main_window"),
		state:    state.StateNoImages,
		onClosed: cfg.OnClosed,
	}

	w.init(cfg.PreviewSize, cfg.ThumbnailSize)
	w.setupEventCallbacks()
	w.applyState(state.StateNoImages)

	w.window.SetOnDropped(w.handleDrop)
	w.window.SetOnClosed(func() {
		w.Cleanup()
		cfg.App.Quit()
	})

	return w
}

func (w *MainWindow) init(previewSize, thumbnailSize float32) {
	headline := widget.NewLabelWithStyle(windowTitle, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	headline.SizeName = theme.SizeNameHeadingText
	desc := widget.NewLabelWithStyle(description, fyne.TextAlignCenter, fyne.TextStyle{})

	w.contentBtn = widget.NewButtonWithIcon(contentLabel, theme.FolderOpenIcon(), func() {
		w.showOpenDialog(state.SlotContent)
	})
	w.styleBtn = widget.NewButtonWithIcon(styleLabel, theme.FolderOpenIcon(), func() {
		w.showOpenDialog(state.SlotStyle)
	})
	w.stylizeBtn = widget.NewButtonWithIcon(stylizeLabel, theme.MediaPlayIcon(), w.handleStylize)
	w.stylizeBtn.Importance = widget.HighImportance
	w.cancelBtn = widget.NewButtonWithIcon("Cancel", theme.CancelIcon(), w.handleCancel)
	w.saveBtn = widget.NewButtonWithIcon("Save Result", theme.DocumentSaveIcon(), w.showSaveDialog)

	controls := container.NewVBox(
		w.contentBtn,
		w.styleBtn,
		w.stylizeBtn,
		container.NewGridWithColumns(2, w.cancelBtn, w.saveBtn),
	)

	w.contentSlot = NewImageSlot("Content", "No content image", previewSize)
	w.styleSlot = NewImageSlot("Style", "No style image", previewSize)
	w.resultSlot = NewImageSlot("Result", "Stylized image appears here", previewSize)
	previews := container.NewHBox(
		layout.NewSpacer(),
		w.contentSlot,
		w.styleSlot,
		w.resultSlot,
		layout.NewSpacer(),
	)

	w.statusLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	footer := container.NewVBox(
		w.statusLabel,
		widget.NewLabelWithStyle(footerText, fyne.TextAlignCenter, fyne.TextStyle{Italic: true}),
	)

	body := container.NewBorder(
		container.NewVBox(headline, desc, container.NewCenter(controls)),
		footer,
		nil, nil,
		container.NewCenter(previews),
	)

	w.carousels = NewCarouselPanel(thumbnailSize, w.handleSelectPreset)

	content := container.NewBorder(nil, nil, w.carousels.Container(), nil, body)
	w.window.SetContent(content)
	w.window.Resize(fyne.NewSize(1400, 850))
}

func (w *MainWindow) setupEventCallbacks() {
	if w.bridge == nil {
		return
	}

	w.bridge.SetCallbacks(&UICallbacks{
		OnStateChanged: func(oldState, newState state.WorkflowState) {
			w.logger.Debug("State changed", "from", oldState, "to", newState)
			// UI update must run on main thread
			fyne.Do(func() {
				w.applyState(newState)
			})
		},
		OnImageLoaded: func(slot state.Slot, path string, preview image.Image) {
			fyne.Do(func() {
				w.showImage(slot, preview)
				w.setStatus(fmt.Sprintf("Loaded %s image %s", slot, filepath.Base(path)))
			})
		},
		OnImageLoadFailed: func(slot state.Slot, path string, err error) {
			w.logger.Error("Image load failed", "slot", slot, "path", path, "error", err)
			// Previous preview stays in place.
			fyne.Do(func() {
				dialog.ShowError(err, w.window)
			})
		},
		OnStylizeStarted: func(runID uint64) {
			fyne.Do(func() {
				w.setStatus("Stylizing...")
			})
		},
		OnStylizeCompleted: func(runID uint64, result image.Image, elapsed time.Duration) {
			fyne.Do(func() {
				w.showResult(result)
				w.setStatus(fmt.Sprintf("Stylized in %s", elapsed.Round(time.Millisecond)))
			})
		},
		OnStylizeFailed: func(runID uint64, err error) {
			w.logger.Error("Stylize failed", "run", runID, "error", err)
			fyne.Do(func() {
				w.setStatus("")
				dialog.ShowError(err, w.window)
			})
		},
		OnStylizeCancelled: func(runID uint64) {
			fyne.Do(func() {
				w.setStatus("Stylization cancelled")
			})
		},
		OnResultSaved: func(path string) {
			fyne.Do(func() {
				w.setStatus("Saved " + path)
			})
		},
		OnResultSaveFailed: func(path string, err error) {
			w.logger.Error("Save failed", "path", path, "error", err)
			fyne.Do(func() {
				dialog.ShowError(err, w.window)
			})
		},
	})

	for _, name := range []string{preset.StylesCarousel, preset.ResultsCarousel} {
		w.bridge.WatchCarousel(name, &CarouselCallbacks{
			OnAdvanced: func(path string, index int, thumb image.Image) {
				fyne.Do(func() {
					w.carousels.ShowThumbnail(name, path, thumb)
				})
			},
			OnFailed: func(path string, index int, err error) {
				w.logger.Debug("Preset unavailable", "carousel", name, "path", path, "error", err)
				// No dialog per tick; the placeholder names the file.
				fyne.Do(func() {
					w.carousels.ShowMissing(name, path)
				})
			},
		})
	}
}

// applyState syncs control availability with the workflow state.
func (w *MainWindow) applyState(s state.WorkflowState) {
	w.state = s

	if s == state.StateProcessing {
		w.stylizeBtn.SetText(processingLabel)
	} else {
		w.stylizeBtn.SetText(stylizeLabel)
	}
	setEnabled(w.stylizeBtn, s.CanStylize())
	setEnabled(w.cancelBtn, s.CanCancel())
	setEnabled(w.saveBtn, w.hasResult && s != state.StateProcessing && !s.IsTerminal())
	setEnabled(w.contentBtn, !s.IsTerminal())
	setEnabled(w.styleBtn, !s.IsTerminal())
}

func setEnabled(btn *widget.Button, enabled bool) {
	if enabled {
		btn.Enable()
	} else {
		btn.Disable()
	}
}

func (w *MainWindow) showImage(slot state.Slot, img image.Image) {
	switch slot {
	case state.SlotContent:
		w.contentSlot.SetImage(img)
	case state.SlotStyle:
		w.styleSlot.SetImage(img)
	}
}

func (w *MainWindow) showResult(img image.Image) {
	w.resultSlot.SetImage(img)
	w.hasResult = img != nil
	w.applyState(w.state)
}

func (w *MainWindow) setStatus(text string) {
	w.statusLabel.SetText(text)
}

// Dialogs

func (w *MainWindow) showOpenDialog(slot state.Slot) {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w.window)
			return
		}
		if reader == nil {
			return // cancelled
		}
		path := reader.URI().Path()
		reader.Close()
		w.requestLoad(slot, path, command.SourceDialog)
	}, w.window)

	d.SetFilter(storage.NewExtensionFileFilter(imageio.SupportedExtensions))
	d.Show()
}

func (w *MainWindow) showSaveDialog() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w.window)
			return
		}
		if writer == nil {
			return // cancelled
		}
		chosen := writer.URI().Path()
		writer.Close()
		path, err := exportPath(chosen)
		if err != nil {
			w.logger.Warn("Failed to remove placeholder file", "path", chosen, "error", err)
		}
		if err := w.bridge.SaveResult(path); err != nil {
			dialog.ShowError(err, w.window)
		}
	}, w.window)

	d.SetFilter(storage.NewExtensionFileFilter(imageio.SaveExtensions))
	d.SetFileName(defaultSaveName)
	d.Show()
}

// exportPath maps the file picked in the save dialog to the file Save writes.
// A name without a known export extension gets .png, and the empty file the
// dialog created under the picked name is removed.
func exportPath(chosen string) (string, error) {
	ext := strings.ToLower(filepath.Ext(chosen))
	for _, known := range imageio.SaveExtensions {
		if ext == known {
			return chosen, nil
		}
	}

	path := chosen + ".png"
	if err := os.Remove(chosen); err != nil && !errors.Is(err, os.ErrNotExist) {
		return path, err
	}
	return path, nil
}

// Handlers

func (w *MainWindow) requestLoad(slot state.Slot, path string, source command.Source) {
	var err error
	switch slot {
	case state.SlotContent:
		err = w.bridge.LoadContent(path, source)
	case state.SlotStyle:
		err = w.bridge.LoadStyle(path, source)
	}
	if err != nil {
		w.logger.Error("Failed to request image load", "slot", slot, "error", err)
		dialog.ShowError(err, w.window)
	}
}

func (w *MainWindow) handleStylize() {
	if !w.state.CanStylize() {
		return
	}
	// Disable immediately so a double click cannot queue a second run.
	w.applyState(state.StateProcessing)
	if err := w.bridge.Stylize(); err != nil {
		w.logger.Error("Failed to start stylize", "error", err)
		w.applyState(state.ForImages(w.contentSlot.HasImage(), w.styleSlot.HasImage()))
		dialog.ShowError(err, w.window)
	}
}

func (w *MainWindow) handleCancel() {
	if err := w.bridge.CancelStylize(); err != nil {
		w.logger.Error("Failed to cancel stylize", "error", err)
	}
}

func (w *MainWindow) handleSelectPreset(path string) {
	if err := w.bridge.SelectPreset(preset.StylesCarousel, path); err != nil {
		w.logger.Warn("Failed to select preset", "error", err)
	}
}

// handleDrop loads the first supported dropped file as the content image.
func (w *MainWindow) handleDrop(_ fyne.Position, uris []fyne.URI) {
	for _, u := range uris {
		path := u.Path()
		if imageio.IsSupported(path) {
			w.requestLoad(state.SlotContent, path, command.SourceDrop)
			return
		}
	}
	if len(uris) > 0 {
		exts := strings.Join(imageio.SupportedExtensions, " ")
		dialog.ShowInformation("Unsupported file", "Drop an image file ("+exts+")", w.window)
	}
}

// Public methods

// Show displays the main window.
func (w *MainWindow) Show() {
	w.window.Show()
}

// ShowAndRun displays the window and runs the app event loop.
func (w *MainWindow) ShowAndRun() {
	w.window.ShowAndRun()
}

// Cleanup releases resources.
func (w *MainWindow) Cleanup() {
	w.cleanupOnce.Do(func() {
		w.logger.Info("Starting cleanup...")

		if w.bridge != nil {
			w.bridge.Close()
		}
		if w.onClosed != nil {
			w.onClosed()
		}

		w.logger.Info("Cleanup completed")
	})
}
