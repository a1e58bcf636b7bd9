package design

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"mockup-studio/pkg/colorutil"
	"mockup-studio/pkg/geometry"
)

// Snapshot is the opaque serialized state of every design object on a
// surface. Zones and guides are derived state and are not captured.
type Snapshot []byte

// objectRecord is the JSON shape of a single object inside a snapshot.
// Kind discriminates the variant; unused fields stay at their zero value.
type objectRecord struct {
	Kind string  `json:"kind"`
	ID   string  `json:"id"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`

	ScaleX   float64 `json:"scale_x"`
	ScaleY   float64 `json:"scale_y"`
	Rotation float64 `json:"rotation,omitempty"`
	ZIndex   int     `json:"z_index"`

	Selectable        bool `json:"selectable"`
	Evented           bool `json:"evented"`
	LockScaling       bool `json:"lock_scaling,omitempty"`
	LockRotation      bool `json:"lock_rotation,omitempty"`
	ExcludeFromExport bool `json:"exclude_from_export,omitempty"`
	ExcludeFromLayers bool `json:"exclude_from_layers,omitempty"`
	Visible           bool `json:"visible"`

	Clip *geometry.Rect `json:"clip,omitempty"`

	// Text fields
	Content        string  `json:"content,omitempty"`
	FontFamily     string  `json:"font_family,omitempty"`
	FontSize       float64 `json:"font_size,omitempty"`
	Fill           string  `json:"fill,omitempty"`
	Bold           bool    `json:"bold,omitempty"`
	Italic         bool    `json:"italic,omitempty"`
	StrokeWidth    float64 `json:"stroke_width,omitempty"`
	Stroke         string  `json:"stroke,omitempty"`
	MeasuredWidth  float64 `json:"measured_width,omitempty"`
	MeasuredHeight float64 `json:"measured_height,omitempty"`

	// Image / pattern fields
	SourceRef     string  `json:"source_ref,omitempty"`
	Grayscale     bool    `json:"grayscale,omitempty"`
	Locked        bool    `json:"locked,omitempty"`
	NaturalWidth  float64 `json:"natural_width,omitempty"`
	NaturalHeight float64 `json:"natural_height,omitempty"`
}

func recordAttrs(a *Attrs, rec *objectRecord) {
	rec.ID = a.ID
	rec.X = a.Position.X
	rec.Y = a.Position.Y
	rec.ScaleX = a.ScaleX
	rec.ScaleY = a.ScaleY
	rec.Rotation = a.Rotation
	rec.ZIndex = a.ZIndex
	rec.Selectable = a.Selectable
	rec.Evented = a.Evented
	rec.LockScaling = a.LockScaling
	rec.LockRotation = a.LockRotation
	rec.ExcludeFromExport = a.ExcludeFromExport
	rec.ExcludeFromLayers = a.ExcludeFromLayers
	rec.Visible = a.Visible
	if a.ClipRegion != nil {
		clip := *a.ClipRegion
		rec.Clip = &clip
	}
}

func restoreAttrs(rec *objectRecord) Attrs {
	a := Attrs{
		ID:                rec.ID,
		Position:          geometry.Point2D{X: rec.X, Y: rec.Y},
		ScaleX:            rec.ScaleX,
		ScaleY:            rec.ScaleY,
		Rotation:          rec.Rotation,
		ZIndex:            rec.ZIndex,
		Selectable:        rec.Selectable,
		Evented:           rec.Evented,
		LockScaling:       rec.LockScaling,
		LockRotation:      rec.LockRotation,
		ExcludeFromExport: rec.ExcludeFromExport,
		ExcludeFromLayers: rec.ExcludeFromLayers,
		Visible:           rec.Visible,
	}
	if rec.Clip != nil {
		clip := *rec.Clip
		a.ClipRegion = &clip
	}
	return a
}

// Serialize captures the current object set as a Snapshot. The result is
// independent of the live objects: mutating them later never changes it.
func (s *Surface) Serialize() Snapshot {
	records := make([]objectRecord, 0, len(s.objects))
	for _, o := range s.objects {
		var rec objectRecord
		rec.Kind = o.ObjectKind().String()
		recordAttrs(o.Common(), &rec)
		switch v := o.(type) {
		case *TextObject:
			rec.Content = v.Content
			rec.FontFamily = v.FontFamily
			rec.FontSize = v.FontSize
			rec.Fill = colorutil.ToHex(v.FillColor)
			rec.Bold = v.Bold
			rec.Italic = v.Italic
			rec.StrokeWidth = v.StrokeWidth
			rec.Stroke = colorutil.ToHex(v.StrokeColor)
			rec.MeasuredWidth = v.MeasuredWidth
			rec.MeasuredHeight = v.MeasuredHeight
		case *ImageObject:
			rec.SourceRef = v.SourceRef
			rec.Grayscale = v.Grayscale
			rec.NaturalWidth = v.NaturalWidth
			rec.NaturalHeight = v.NaturalHeight
		case *PatternObject:
			rec.SourceRef = v.SourceRef
			rec.Locked = v.Locked
			rec.NaturalWidth = v.NaturalWidth
			rec.NaturalHeight = v.NaturalHeight
		}
		records = append(records, rec)
	}

	data, err := json.Marshal(records)
	if err != nil {
		// Records contain only plain values; marshal cannot fail.
		panic(err)
	}
	return Snapshot(data)
}

// Restore replaces the entire live object set with the snapshot's contents.
// Image pixels are re-bound through the pixel resolver; zones and guides
// are re-derived rather than restored.
func (s *Surface) Restore(snap Snapshot) error {
	var records []objectRecord
	if err := json.Unmarshal([]byte(snap), &records); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	objects := make([]Object, 0, len(records))
	maxSeq := 0
	for i := range records {
		rec := &records[i]
		o, err := s.restoreObject(rec)
		if err != nil {
			return err
		}
		objects = append(objects, o)
		if n := idSequence(rec.ID); n > maxSeq {
			maxSeq = n
		}
	}

	s.objects = objects
	s.activeID = ""
	s.guides.Reset()
	if maxSeq > s.idSeq {
		s.idSeq = maxSeq
	}
	s.renumber()
	return nil
}

func (s *Surface) restoreObject(rec *objectRecord) (Object, error) {
	switch rec.Kind {
	case KindText.String():
		fill, _ := colorutil.ParseHex(rec.Fill)
		stroke, _ := colorutil.ParseHex(rec.Stroke)
		return &TextObject{
			Attrs:          restoreAttrs(rec),
			Content:        rec.Content,
			FontFamily:     rec.FontFamily,
			FontSize:       rec.FontSize,
			FillColor:      fill,
			Bold:           rec.Bold,
			Italic:         rec.Italic,
			StrokeWidth:    rec.StrokeWidth,
			StrokeColor:    stroke,
			MeasuredWidth:  rec.MeasuredWidth,
			MeasuredHeight: rec.MeasuredHeight,
		}, nil
	case KindImage.String():
		o := &ImageObject{
			Attrs:         restoreAttrs(rec),
			SourceRef:     rec.SourceRef,
			Grayscale:     rec.Grayscale,
			NaturalWidth:  rec.NaturalWidth,
			NaturalHeight: rec.NaturalHeight,
		}
		if s.resolve != nil {
			o.Pixels = s.resolve(rec.SourceRef)
		}
		return o, nil
	case KindPattern.String():
		o := &PatternObject{
			Attrs:         restoreAttrs(rec),
			SourceRef:     rec.SourceRef,
			Locked:        rec.Locked,
			NaturalWidth:  rec.NaturalWidth,
			NaturalHeight: rec.NaturalHeight,
		}
		if s.resolve != nil {
			o.Pixels = s.resolve(rec.SourceRef)
		}
		return o, nil
	default:
		return nil, fmt.Errorf("unknown object kind %q in snapshot", rec.Kind)
	}
}

// idSequence extracts the numeric suffix of a generated object id so the
// surface's id counter can continue past restored objects.
func idSequence(id string) int {
	i := strings.LastIndexByte(id, '-')
	if i < 0 {
		return 0
	}
	n, err := strconv.Atoi(id[i+1:])
	if err != nil {
		return 0
	}
	return n
}
