package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"ilint/internal/ir"
	"ilint/internal/source"
)

const xliffNamespace = "urn:oasis:names:tc:xliff:document:1.2"

type xliffDoc struct {
	XMLName xml.Name    `xml:"xliff"`
	Version string      `xml:"version,attr"`
	Xmlns   string      `xml:"xmlns,attr,omitempty"`
	Files   []xliffFile `xml:"file"`
}

type xliffFile struct {
	Original       string    `xml:"original,attr"`
	SourceLanguage string    `xml:"source-language,attr"`
	TargetLanguage string    `xml:"target-language,attr,omitempty"`
	Datatype       string    `xml:"datatype,attr,omitempty"`
	Body           xliffBody `xml:"body"`
}

type xliffBody struct {
	Units []transUnit `xml:"trans-unit"`
}

type transUnit struct {
	ID       string       `xml:"id,attr"`
	Resname  string       `xml:"resname,attr,omitempty"`
	Datatype string       `xml:"datatype,attr,omitempty"`
	Source   string       `xml:"source"`
	Target   *xliffTarget `xml:"target"`
	Note     string       `xml:"note,omitempty"`
}

type xliffTarget struct {
	State string `xml:"state,attr,omitempty"`
	Text  string `xml:",chardata"`
}

// xliffOrigin keeps the parsed bytes so Write can patch only the units whose
// text changed. Offsets index the normalized content.
type xliffOrigin struct {
	content []byte
	layout  source.Layout
	units   map[*ir.Resource]*unitSpans
}

// unitSpans locates the parts of one trans-unit that Write may replace.
type unitSpans struct {
	source *element
	target *element
	// end is the offset of the closing tag of the trans-unit.
	end int
}

// element is a child of a trans-unit. text is its character data with
// inline markup removed; segments map text offsets back to the file.
type element struct {
	start, end           int
	innerStart, innerEnd int
	text                 string
	segments             []segment
}

// segment is one run of character data. Runs containing entities or CDATA
// have rawLen != n and cannot be patched in place.
type segment struct {
	text, raw, rawLen, n int
}

// Xliff reads and writes XLIFF 1.2 resource files.
type Xliff struct{}

func NewXliff() *Xliff { return &Xliff{} }

func (*Xliff) Name() string         { return "xliff" }
func (*Xliff) Description() string  { return "Parser for XLIFF 1.2 resource files" }
func (*Xliff) Extensions() []string { return []string{"xliff", "xlf"} }
func (*Xliff) Type() string         { return ir.TypeResource }
func (*Xliff) CanWrite() bool       { return true }

// Parse returns a single resource IR holding every trans-unit of the file.
// Inline elements such as <g> or <ph> are dropped from Source and Target but
// their text is kept, so placeholders inside them stay visible to rules.
func (*Xliff) Parse(path string) ([]*ir.IR, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	content, layout := source.Normalize(content)

	resources, units, err := decodeXliff(path, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	r := ir.New(ir.TypeResource, path, resources)
	r.Stats = ir.Stats{
		Lines: source.NewText(string(content)).LineCount(),
		Bytes: len(content),
	}
	r.Origin = &xliffOrigin{content: content, layout: layout, units: units}
	return []*ir.IR{r}, nil
}

func decodeXliff(path string, content []byte) ([]*ir.Resource, map[*ir.Resource]*unitSpans, error) {
	dec := xml.NewDecoder(bytes.NewReader(content))
	var (
		file      xliffFile
		resources = make([]*ir.Resource, 0)
		units     = make(map[*ir.Resource]*unitSpans)
		sawRoot   bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "xliff":
			sawRoot = true
		case "file":
			file = xliffFile{
				Original:       attr(se, "original"),
				SourceLanguage: attr(se, "source-language"),
				TargetLanguage: attr(se, "target-language"),
				Datatype:       attr(se, "datatype"),
			}
		case "trans-unit":
			line, _ := dec.InputPos()
			res, spans, err := decodeUnit(dec, se, file)
			if err != nil {
				return nil, nil, err
			}
			res.Path = path
			res.Line = line
			resources = append(resources, res)
			units[res] = spans
		}
	}
	if !sawRoot {
		return nil, nil, errors.New("not an xliff document")
	}
	return resources, units, nil
}

// decodeUnit reads the children of a trans-unit up to its closing tag.
func decodeUnit(dec *xml.Decoder, se xml.StartElement, file xliffFile) (*ir.Resource, *unitSpans, error) {
	res := &ir.Resource{
		ID:           attr(se, "id"),
		Key:          attr(se, "resname"),
		SourceLocale: file.SourceLanguage,
		TargetLocale: file.TargetLanguage,
		Datatype:     file.Datatype,
		Project:      file.Original,
	}
	if res.Key == "" {
		res.Key = res.ID
	}
	if dt := attr(se, "datatype"); dt != "" {
		res.Datatype = dt
	}

	spans := &unitSpans{}
	for {
		offset := int(dec.InputOffset())
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			spans.end = offset
			return res, spans, nil
		case xml.StartElement:
			el, err := readElement(dec, offset)
			if err != nil {
				return nil, nil, err
			}
			switch t.Name.Local {
			case "source":
				res.Source = el.text
				spans.source = el
			case "target":
				res.Target = el.text
				res.State = attr(t, "state")
				res.HasTarget = true
				spans.target = el
			case "note":
				if res.Comment == "" {
					res.Comment = strings.TrimSpace(el.text)
				}
			}
		}
	}
}

// readElement consumes the element whose start tag began at start.
func readElement(dec *xml.Decoder, start int) (*element, error) {
	el := &element{start: start, innerStart: int(dec.InputOffset())}
	var text strings.Builder
	depth := 0
	for {
		offset := int(dec.InputOffset())
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth > 0 {
				depth--
				continue
			}
			el.innerEnd = offset
			el.end = int(dec.InputOffset())
			el.text = text.String()
			return el, nil
		case xml.CharData:
			el.segments = append(el.segments, segment{
				text:   text.Len(),
				raw:    offset,
				rawLen: int(dec.InputOffset()) - offset,
				n:      len(t),
			})
			text.Write(t)
		}
	}
}

func attr(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// selfClosing reports whether the element was written as <name/>.
func (el *element) selfClosing() bool {
	return el.innerStart == el.end
}

// replaceText returns the patch that turns the element's text into want.
// Only the changed middle is rewritten when it falls inside one plain run of
// character data; otherwise the whole content of the element is replaced.
func (el *element) replaceText(name, want string) patch {
	if el.selfClosing() {
		return patch{start: el.innerStart - len("/>"), end: el.end, text: ">" + escapeText(want) + "</" + name + ">"}
	}
	old := el.text
	prefix := 0
	for prefix < len(old) && prefix < len(want) && old[prefix] == want[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(old)-prefix && suffix < len(want)-prefix &&
		old[len(old)-1-suffix] == want[len(want)-1-suffix] {
		suffix++
	}
	from, to := prefix, len(old)-suffix
	middle := escapeText(want[prefix : len(want)-suffix])
	for _, seg := range el.segments {
		if seg.rawLen != seg.n || from < seg.text || to > seg.text+seg.n {
			continue
		}
		return patch{start: seg.raw + from - seg.text, end: seg.raw + to - seg.text, text: middle}
	}
	return patch{start: el.innerStart, end: el.innerEnd, text: escapeText(want)}
}

type patch struct {
	start, end int
	text       string
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeText(s string) string { return textEscaper.Replace(s) }

// Write stores the resources of r back to r.FilePath. When r came from
// Parse, only the source and target text of changed units is rewritten and
// everything else in the file is kept byte for byte. Other IRs are
// serialized from scratch.
func (*Xliff) Write(r *ir.IR) error {
	if r.Type != ir.TypeResource {
		return fmt.Errorf("write %s: representation is not a resource list", r.FilePath)
	}
	var (
		data []byte
		err  error
	)
	if origin, ok := r.Origin.(*xliffOrigin); ok {
		data = origin.patch(r.Resources())
	} else {
		data, err = encodeXliff(r.Resources())
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", r.FilePath, err)
	}
	return writeFile(r.FilePath, data)
}

func (o *xliffOrigin) patch(resources []*ir.Resource) []byte {
	var patches []patch
	for _, res := range resources {
		spans, ok := o.units[res]
		if !ok {
			continue
		}
		if spans.source != nil && res.Source != spans.source.text {
			patches = append(patches, spans.source.replaceText("source", res.Source))
		}
		switch {
		case spans.target != nil && res.Target != spans.target.text:
			patches = append(patches, spans.target.replaceText("target", res.Target))
		case spans.target == nil && res.HasTarget:
			patches = append(patches, o.insertTarget(spans, res))
		}
	}
	sort.SliceStable(patches, func(i, j int) bool { return patches[i].start < patches[j].start })

	var out bytes.Buffer
	last := 0
	for _, p := range patches {
		out.Write(o.content[last:p.start])
		out.WriteString(p.text)
		last = p.end
	}
	out.Write(o.content[last:])
	return o.layout.Restore(out.Bytes())
}

// insertTarget adds a target element after the source, indented like it.
func (o *xliffOrigin) insertTarget(spans *unitSpans, res *ir.Resource) patch {
	var elem strings.Builder
	elem.WriteString("<target")
	if res.State != "" {
		elem.WriteString(` state="`)
		_ = xml.EscapeText(&elem, []byte(res.State))
		elem.WriteString(`"`)
	}
	elem.WriteString(">")
	elem.WriteString(escapeText(res.Target))
	elem.WriteString("</target>")

	if spans.source == nil {
		return patch{start: spans.end, end: spans.end, text: elem.String()}
	}
	at := spans.source.end
	return patch{start: at, end: at, text: "\n" + o.indentAt(spans.source.start) + elem.String()}
}

// indentAt returns the blanks between the start of the line and offset, or
// nothing when other text precedes offset on that line.
func (o *xliffOrigin) indentAt(offset int) string {
	lineStart := bytes.LastIndexByte(o.content[:offset], '\n') + 1
	indent := o.content[lineStart:offset]
	if len(bytes.Trim(indent, " \t")) != 0 {
		return ""
	}
	return string(indent)
}

func encodeXliff(resources []*ir.Resource) ([]byte, error) {
	doc := xliffDoc{Version: "1.2", Xmlns: xliffNamespace}
	for _, res := range resources {
		n := len(doc.Files)
		if n == 0 || !sameFile(doc.Files[n-1], res) {
			doc.Files = append(doc.Files, xliffFile{
				Original:       res.Project,
				SourceLanguage: res.SourceLocale,
				TargetLanguage: res.TargetLocale,
				Datatype:       res.Datatype,
			})
			n++
		}
		id := res.ID
		if id == "" {
			id = res.Key
		}
		tu := transUnit{
			ID:      id,
			Resname: res.Key,
			Source:  res.Source,
			Note:    res.Comment,
		}
		if res.HasTarget {
			tu.Target = &xliffTarget{State: res.State, Text: res.Target}
		}
		doc.Files[n-1].Body.Units = append(doc.Files[n-1].Body.Units, tu)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func sameFile(f xliffFile, res *ir.Resource) bool {
	return f.Original == res.Project &&
		f.SourceLanguage == res.SourceLocale &&
		f.TargetLanguage == res.TargetLocale &&
		f.Datatype == res.Datatype
}
