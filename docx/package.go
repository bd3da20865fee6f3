package docx

import (
	"archive/zip"
	"fmt"
	"io"

	"github.com/beevik/etree"
)

// XML namespaces of a WordprocessingML package.
const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	nsPkg = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsCT  = "http://schemas.openxmlformats.org/package/2006/content-types"

	relDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relStyles   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relImage    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"

	ctDocument = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ctStyles   = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	ctRels     = "application/vnd.openxmlformats-package.relationships+xml"
)

// Package part names.
const (
	partContentTypes = "[Content_Types].xml"
	partRootRels     = "_rels/.rels"
	partDocument     = "word/document.xml"
	partDocumentRels = "word/_rels/document.xml.rels"
	partStyles       = "word/styles.xml"
	mediaDir         = "word/media/"
)

// imageFormats maps image.DecodeConfig format names to a file extension
// and content type.
var imageFormats = map[string]struct{ ext, contentType string }{
	"png":  {"png", "image/png"},
	"jpeg": {"jpeg", "image/jpeg"},
	"gif":  {"gif", "image/gif"},
}

// media is an embedded image part.
type media struct {
	relID string
	name  string // file name under word/media/
}

func newXMLDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	return doc
}

func writePart(zw *zip.Writer, name string, doc *etree.Document) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func writeRaw(zw *zip.Writer, name, content string) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, content)
	return err
}

func contentTypes() *etree.Document {
	doc := newXMLDocument()
	types := doc.CreateElement("Types")
	types.CreateAttr("xmlns", nsCT)

	addDefault := func(ext, contentType string) {
		d := types.CreateElement("Default")
		d.CreateAttr("Extension", ext)
		d.CreateAttr("ContentType", contentType)
	}
	addDefault("rels", ctRels)
	addDefault("xml", "application/xml")
	for _, name := range []string{"png", "jpeg", "gif"} {
		f := imageFormats[name]
		addDefault(f.ext, f.contentType)
	}

	addOverride := func(part, contentType string) {
		o := types.CreateElement("Override")
		o.CreateAttr("PartName", "/"+part)
		o.CreateAttr("ContentType", contentType)
	}
	addOverride(partDocument, ctDocument)
	addOverride(partStyles, ctStyles)
	return doc
}

func rootRels() *etree.Document {
	doc := newXMLDocument()
	rels := doc.CreateElement("Relationships")
	rels.CreateAttr("xmlns", nsPkg)
	addRel(rels, "rId1", relDocument, partDocument)
	return doc
}

func documentRels(images []media) *etree.Document {
	doc := newXMLDocument()
	rels := doc.CreateElement("Relationships")
	rels.CreateAttr("xmlns", nsPkg)
	addRel(rels, "rId1", relStyles, "styles.xml")
	for _, m := range images {
		addRel(rels, m.relID, relImage, "media/"+m.name)
	}
	return doc
}

func addRel(rels *etree.Element, id, typ, target string) {
	r := rels.CreateElement("Relationship")
	r.CreateAttr("Id", id)
	r.CreateAttr("Type", typ)
	r.CreateAttr("Target", target)
}

const styles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:docDefaults>
<w:rPrDefault><w:rPr><w:rFonts w:ascii="Calibri" w:hAnsi="Calibri" w:eastAsia="Calibri" w:cs="Calibri"/><w:sz w:val="22"/></w:rPr></w:rPrDefault>
<w:pPrDefault><w:pPr><w:spacing w:after="160" w:line="259" w:lineRule="auto"/></w:pPr></w:pPrDefault>
</w:docDefaults>
<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:qFormat/></w:style>
<w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/><w:rPr><w:sz w:val="56"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/><w:pPr><w:keepNext/><w:spacing w:before="240" w:after="120"/><w:outlineLvl w:val="0"/></w:pPr><w:rPr><w:b/><w:sz w:val="32"/></w:rPr></w:style>
</w:styles>`
