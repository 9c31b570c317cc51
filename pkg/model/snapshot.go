package model

// File is a file-like blob selected in a file input.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Entry is one (name, value) pair of a field snapshot. File is non-nil for
// file-valued entries, in which case Value is ignored.
type Entry struct {
	Name  string
	Value string
	File  *File
}

// Text builds a text-valued entry.
func Text(name, value string) Entry {
	return Entry{Name: name, Value: value}
}

// FileEntry builds a file-valued entry.
func FileEntry(name string, file File) Entry {
	return Entry{Name: name, File: &file}
}

// IsFile reports whether the entry carries a file.
func (e Entry) IsFile() bool {
	return e.File != nil
}

// String returns the text value, or the filename for file entries.
func (e Entry) String() string {
	if e.File != nil {
		return e.File.Name
	}
	return e.Value
}

// Snapshot is the ordered field set captured at submission time.
type Snapshot []Entry

// Clone copies the snapshot. File payloads are shared; they are never written
// to after capture.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	return append(Snapshot(nil), s...)
}

// WithSubmitter returns a copy of the snapshot with the submitter's own
// name/value appended, mirroring how the activated button joins the form data
// set.
func (s Snapshot) WithSubmitter(submitter *Submitter) Snapshot {
	out := s.Clone()
	if submitter == nil || submitter.Name == "" {
		return out
	}
	return append(out, Text(submitter.Name, submitter.Value))
}

// ValueMap maps field names to their value for one declaration's evaluation.
type ValueMap map[string]Entry

// ValueMapFor restricts the snapshot to the given field names. Repeated names
// resolve to their last entry.
func (s Snapshot) ValueMapFor(names []string) ValueMap {
	if len(names) == 0 {
		return ValueMap{}
	}
	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		wanted[name] = struct{}{}
	}
	values := make(ValueMap, len(names))
	for _, entry := range s {
		if _, ok := wanted[entry.Name]; ok {
			values[entry.Name] = entry
		}
	}
	return values
}
