package docx

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// EMUs per pixel at 96 DPI.
const emuPerPixel = 9525

// maxWidthPx is the text width of a Letter page with 1in margins.
const maxWidthPx = 576

// body builds the w:body of word/document.xml.
type body struct {
	doc  *etree.Document
	body *etree.Element
}

func newBody() *body {
	doc := newXMLDocument()
	root := doc.CreateElement("w:document")
	root.CreateAttr("xmlns:w", nsW)
	root.CreateAttr("xmlns:r", nsR)
	root.CreateAttr("xmlns:wp", nsWP)
	root.CreateAttr("xmlns:a", nsA)
	root.CreateAttr("xmlns:pic", nsPic)
	return &body{doc: doc, body: root.CreateElement("w:body")}
}

func (b *body) paragraph(style string) *etree.Element {
	p := b.body.CreateElement("w:p")
	if style != "" {
		pPr := p.CreateElement("w:pPr")
		pPr.CreateElement("w:pStyle").CreateAttr("w:val", style)
	}
	return p
}

// text appends a paragraph holding text in the given style.
func (b *body) text(style, text string) {
	p := b.paragraph(style)
	t := p.CreateElement("w:r").CreateElement("w:t")
	t.CreateAttr("xml:space", "preserve")
	t.SetText(xmlSafe(text))
}

// pageBreak appends a paragraph holding a page break.
func (b *body) pageBreak() {
	br := b.paragraph("").CreateElement("w:r").CreateElement("w:br")
	br.CreateAttr("w:type", "page")
}

// picture appends a paragraph holding an inline image of the given
// size in pixels. id must be unique within the document.
func (b *body) picture(id int, relID, name string, widthPx, heightPx int) {
	cx := fmt.Sprint(widthPx * emuPerPixel)
	cy := fmt.Sprint(heightPx * emuPerPixel)

	inline := b.paragraph("").CreateElement("w:r").CreateElement("w:drawing").CreateElement("wp:inline")
	for _, k := range []string{"distT", "distB", "distL", "distR"} {
		inline.CreateAttr(k, "0")
	}
	extent := inline.CreateElement("wp:extent")
	extent.CreateAttr("cx", cx)
	extent.CreateAttr("cy", cy)
	docPr := inline.CreateElement("wp:docPr")
	docPr.CreateAttr("id", fmt.Sprint(id))
	docPr.CreateAttr("name", fmt.Sprintf("Picture %d", id))
	inline.CreateElement("wp:cNvGraphicFramePr").
		CreateElement("a:graphicFrameLocks").
		CreateAttr("noChangeAspect", "1")

	data := inline.CreateElement("a:graphic").CreateElement("a:graphicData")
	data.CreateAttr("uri", nsPic)
	pic := data.CreateElement("pic:pic")

	nv := pic.CreateElement("pic:nvPicPr")
	cNvPr := nv.CreateElement("pic:cNvPr")
	cNvPr.CreateAttr("id", fmt.Sprint(id))
	cNvPr.CreateAttr("name", name)
	nv.CreateElement("pic:cNvPicPr")

	fill := pic.CreateElement("pic:blipFill")
	fill.CreateElement("a:blip").CreateAttr("r:embed", relID)
	fill.CreateElement("a:stretch").CreateElement("a:fillRect")

	spPr := pic.CreateElement("pic:spPr")
	xfrm := spPr.CreateElement("a:xfrm")
	off := xfrm.CreateElement("a:off")
	off.CreateAttr("x", "0")
	off.CreateAttr("y", "0")
	ext := xfrm.CreateElement("a:ext")
	ext.CreateAttr("cx", cx)
	ext.CreateAttr("cy", cy)
	geom := spPr.CreateElement("a:prstGeom")
	geom.CreateAttr("prst", "rect")
	geom.CreateElement("a:avLst")
}

// finish appends the section properties: Letter paper, 1in margins.
func (b *body) finish() {
	sectPr := b.body.CreateElement("w:sectPr")
	pgSz := sectPr.CreateElement("w:pgSz")
	pgSz.CreateAttr("w:w", "12240")
	pgSz.CreateAttr("w:h", "15840")
	pgMar := sectPr.CreateElement("w:pgMar")
	for _, k := range []string{"w:top", "w:right", "w:bottom", "w:left"} {
		pgMar.CreateAttr(k, "1440")
	}
}

// scale returns the display size for an image of natural size w x h.
// A declared width wins over the natural width; the result never exceeds
// maxWidthPx and keeps the aspect ratio.
func scale(declared, w, h int) (int, int) {
	target := w
	if declared > 0 {
		target = declared
	}
	if target > maxWidthPx {
		target = maxWidthPx
	}
	if w <= 0 {
		return target, target
	}
	return target, max(1, h*target/w)
}

// xmlSafe drops characters that XML 1.0 does not allow.
func xmlSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return r
		case r < 0x20, r == 0xFFFE, r == 0xFFFF:
			return -1
		case r >= 0xD800 && r <= 0xDFFF:
			return -1
		}
		return r
	}, s)
}
