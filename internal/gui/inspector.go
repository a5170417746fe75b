package gui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// newInspector builds the developer panel. doc may be nil while loading.
func newInspector(doc *Document, resource string, width, height int) fyne.CanvasObject {
	form := widget.NewForm(
		widget.NewFormItem("Resource", wrapped(resource)),
		widget.NewFormItem("Window", widget.NewLabel(fmt.Sprintf("%dx%d", width, height))),
	)

	if doc != nil {
		form.Append("MIME", widget.NewLabel(doc.MIME))
		form.Append("Title", wrapped(doc.Title))
		form.Append("Bytes", widget.NewLabel(strconv.Itoa(doc.Size)))
		form.Append("Load time", widget.NewLabel(doc.LoadTime.String()))
		form.Append("Blocks", widget.NewLabel(strconv.Itoa(len(doc.Blocks))))
		form.Append("Links", widget.NewLabel(strconv.Itoa(len(doc.Links))))
	}

	links := container.NewVBox()
	if doc != nil {
		for _, href := range doc.Links {
			links.Add(wrapped(href))
		}
	}

	return widget.NewCard("Inspector", "", container.NewVScroll(container.NewVBox(form, widget.NewSeparator(), links)))
}

func wrapped(text string) *widget.Label {
	label := widget.NewLabel(text)
	label.Wrapping = fyne.TextWrapBreak
	return label
}
