// Package codec encodes the exercise history to and from the on-disk binary
// format.
//
// A history file starts with the magic bytes "HFHIST" and a uvarint format
// version, followed by a protocol-buffers encoded History message:
//
//	message History {
//	  uint32 version = 1;
//	  repeated Day days = 2;
//	}
//
//	message Day {
//	  string id = 1;
//	  sint64 unix_seconds = 2;
//	  int32 nanos = 3;
//	  repeated string exercises = 4;
//	}
//
// Days are written in collection order and read back in the same order.
package codec

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/scbrown/hiitfit/internal/model"
	"google.golang.org/protobuf/encoding/protowire"
)

// Magic prefixes every history file.
const Magic = "HFHIST"

// Version is the format version written by Marshal.
const Version = 1

// ErrMalformed indicates data that is not a readable history file.
var ErrMalformed = errors.New("malformed history data")

// errNoDate marks a day record without a date. Such records are dropped
// rather than failing the whole file.
var errNoDate = errors.New("missing date")

const (
	fieldHistoryVersion protowire.Number = 1
	fieldHistoryDay     protowire.Number = 2

	fieldDayID        protowire.Number = 1
	fieldDaySeconds   protowire.Number = 2
	fieldDayNanos     protowire.Number = 3
	fieldDayExercises protowire.Number = 4
)

// Marshal encodes days in order.
func Marshal(days []model.ExerciseDay) ([]byte, error) {
	b := make([]byte, 0, len(Magic)+16+32*len(days))
	b = append(b, Magic...)
	b = protowire.AppendVarint(b, Version)

	b = protowire.AppendTag(b, fieldHistoryVersion, protowire.VarintType)
	b = protowire.AppendVarint(b, Version)

	for i, d := range days {
		day, err := marshalDay(d)
		if err != nil {
			return nil, fmt.Errorf("day %d: %w", i, err)
		}
		b = protowire.AppendTag(b, fieldHistoryDay, protowire.BytesType)
		b = protowire.AppendBytes(b, day)
	}
	return b, nil
}

func marshalDay(d model.ExerciseDay) ([]byte, error) {
	if !utf8.ValidString(d.ID) {
		return nil, fmt.Errorf("id is not valid UTF-8")
	}

	var b []byte
	b = protowire.AppendTag(b, fieldDayID, protowire.BytesType)
	b = protowire.AppendString(b, d.ID)

	b = protowire.AppendTag(b, fieldDaySeconds, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(d.Date.Unix()))

	if ns := d.Date.Nanosecond(); ns != 0 {
		b = protowire.AppendTag(b, fieldDayNanos, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(ns))
	}

	for _, e := range d.Exercises {
		if !utf8.ValidString(e) {
			return nil, fmt.Errorf("exercise %q is not valid UTF-8", e)
		}
		b = protowire.AppendTag(b, fieldDayExercises, protowire.BytesType)
		b = protowire.AppendString(b, e)
	}
	return b, nil
}

// Unmarshal decodes a history file. Structural problems fail the whole decode
// with ErrMalformed. Within a day a missing exercise list decodes as empty
// and a missing id is replaced with a fresh one. A day without a date is
// skipped and the remaining days are kept.
func Unmarshal(data []byte) ([]model.ExerciseDay, error) {
	if len(data) < len(Magic) || string(data[:len(Magic)]) != Magic {
		return nil, fmt.Errorf("%w: missing %q header", ErrMalformed, Magic)
	}
	data = data[len(Magic):]

	ver, n := protowire.ConsumeVarint(data)
	if n < 0 {
		return nil, fmt.Errorf("%w: reading version: %v", ErrMalformed, protowire.ParseError(n))
	}
	if ver == 0 || ver > Version {
		return nil, fmt.Errorf("%w: unsupported version %d (this build reads up to %d)", ErrMalformed, ver, Version)
	}
	data = data[n:]

	days := []model.ExerciseDay{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}
		data = data[n:]

		switch {
		case num == fieldHistoryDay && typ == protowire.BytesType:
			raw, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, fmt.Errorf("%w: day %d: %v", ErrMalformed, len(days), protowire.ParseError(n))
			}
			d, err := unmarshalDay(raw)
			data = data[n:]
			if errors.Is(err, errNoDate) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("%w: day %d: %v", ErrMalformed, len(days), err)
			}
			days = append(days, d)
		case num == fieldHistoryDay, num == fieldHistoryVersion && typ != protowire.VarintType:
			return nil, fmt.Errorf("%w: field %d has wire type %d", ErrMalformed, num, typ)
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, fmt.Errorf("%w: field %d: %v", ErrMalformed, num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
	return days, nil
}

func unmarshalDay(b []byte) (model.ExerciseDay, error) {
	var (
		d       model.ExerciseDay
		seconds int64
		nanos   uint64
		hasDate bool
	)
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return d, protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case num == fieldDayID && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return d, protowire.ParseError(n)
			}
			d.ID = v
			b = b[n:]
		case num == fieldDaySeconds && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return d, protowire.ParseError(n)
			}
			seconds = protowire.DecodeZigZag(v)
			hasDate = true
			b = b[n:]
		case num == fieldDayNanos && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return d, protowire.ParseError(n)
			}
			if v >= uint64(time.Second) {
				return d, fmt.Errorf("nanos %d out of range", v)
			}
			nanos = v
			b = b[n:]
		case num == fieldDayExercises && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return d, protowire.ParseError(n)
			}
			d.Exercises = append(d.Exercises, v)
			b = b[n:]
		case num >= fieldDayID && num <= fieldDayExercises:
			return d, fmt.Errorf("field %d has wire type %d", num, typ)
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return d, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}

	if !hasDate {
		return d, errNoDate
	}
	d.Date = time.Unix(seconds, int64(nanos))
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Exercises == nil {
		d.Exercises = []string{}
	}
	return d, nil
}
