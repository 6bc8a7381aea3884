package gui

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"docdate/internal/logger"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const parentEntry = ".."

type dirEntry struct {
	name  string
	isDir bool
}

// SelectFunc receives the chooser, the directory being browsed and the
// highlighted paths when Select is pressed.
type SelectFunc func(c *FileChooser, dir string, selection []string)

// FileChooser is a modal directory browser. It does no type filtering:
// whatever file is highlighted is forwarded on Select.
type FileChooser struct {
	dir       string
	entries   []dirEntry
	selection []string
	onSelect  SelectFunc
	logger    logger.Logger

	pathLabel    *widget.Label
	list         *widget.List
	SelectButton *widget.Button
	CancelButton *widget.Button
	content      fyne.CanvasObject
	popup        *widget.PopUp
}

func NewFileChooser(startDir string, onSelect SelectFunc, log logger.Logger) *FileChooser {
	c := &FileChooser{onSelect: onSelect, logger: log}

	c.pathLabel = widget.NewLabel("")
	c.pathLabel.Truncation = fyne.TextTruncateEllipsis

	c.list = widget.NewList(
		func() int { return len(c.entries) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, o fyne.CanvasObject) {
			e := c.entries[id]
			name := e.name
			if e.isDir && name != parentEntry {
				name += string(filepath.Separator)
			}
			o.(*widget.Label).SetText(name)
		},
	)
	c.list.OnSelected = c.activate

	c.SelectButton = widget.NewButton("Select", func() {
		if c.onSelect != nil {
			c.onSelect(c, c.dir, c.Selection())
		}
	})
	c.CancelButton = widget.NewButton("Cancel", c.Dismiss)

	c.content = container.NewBorder(
		container.NewVBox(widget.NewLabelWithStyle("Choose a picture", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}), c.pathLabel),
		container.NewGridWithColumns(2, c.SelectButton, c.CancelButton),
		nil, nil,
		c.list,
	)

	c.SetDir(startDir)
	return c
}

// SetDir lists dir and clears the selection. Hidden entries are skipped.
func (c *FileChooser) SetDir(dir string) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}

	items, err := os.ReadDir(abs)
	if err != nil {
		c.logger.Warning("FileChooser", "cannot list directory", map[string]interface{}{
			"dir":   abs,
			"error": err.Error(),
		})
		return
	}

	entries := make([]dirEntry, 0, len(items)+1)
	for _, item := range items {
		if strings.HasPrefix(item.Name(), ".") {
			continue
		}
		entries = append(entries, dirEntry{name: item.Name(), isDir: item.IsDir()})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].isDir != entries[j].isDir {
			return entries[i].isDir
		}
		return strings.ToLower(entries[i].name) < strings.ToLower(entries[j].name)
	})
	if parent := filepath.Dir(abs); parent != abs {
		entries = append([]dirEntry{{name: parentEntry, isDir: true}}, entries...)
	}

	c.dir = abs
	c.entries = entries
	c.selection = nil
	c.pathLabel.SetText(abs)
	c.list.UnselectAll()
	c.list.Refresh()
}

// activate handles a tap on row id: directories are entered, files are
// highlighted.
func (c *FileChooser) activate(id widget.ListItemID) {
	if id < 0 || id >= len(c.entries) {
		return
	}
	e := c.entries[id]

	if e.isDir {
		target := filepath.Join(c.dir, e.name)
		if e.name == parentEntry {
			target = filepath.Dir(c.dir)
		}
		c.SetDir(target)
		return
	}

	c.selection = []string{filepath.Join(c.dir, e.name)}
}

// Highlight selects the entry called name, as a tap on it would.
func (c *FileChooser) Highlight(name string) bool {
	for i, e := range c.entries {
		if e.name == name {
			c.list.Select(i)
			return true
		}
	}
	return false
}

func (c *FileChooser) Selection() []string {
	return append([]string(nil), c.selection...)
}

func (c *FileChooser) Dir() string {
	return c.dir
}

func (c *FileChooser) Content() fyne.CanvasObject {
	return c.content
}

// Show opens the chooser as a modal over most of the window.
func (c *FileChooser) Show(window fyne.Window) {
	c.popup = widget.NewModalPopUp(c.content, window.Canvas())
	size := window.Canvas().Size()
	c.popup.Resize(fyne.NewSize(size.Width*0.9, size.Height*0.9))
	c.popup.Show()
}

func (c *FileChooser) Visible() bool {
	return c.popup != nil && c.popup.Visible()
}

func (c *FileChooser) Dismiss() {
	if c.popup != nil {
		c.popup.Hide()
	}
}
