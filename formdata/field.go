package formdata

import "github.com/vitalvas/kestrel/tempstore"

// Field is one decoded part of a multipart/form-data body. It is either a
// text field, with Value set, or a file field, with Filename and File set.
type Field struct {
	Name  string
	Value string

	Filename    string
	ContentType string
	File        *tempstore.File
}

// IsFile reports whether the field carries an uploaded file.
func (f Field) IsFile() bool {
	return f.File != nil
}

// Form is the ordered list of fields of a decoded body.
type Form []Field

// Get returns the last field with the given name.
func (f Form) Get(name string) (Field, bool) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i].Name == name {
			return f[i], true
		}
	}
	return Field{}, false
}

// Value returns the value of the last text field with the given name, or an
// empty string.
func (f Form) Value(name string) string {
	field, ok := f.Get(name)
	if !ok || field.IsFile() {
		return ""
	}
	return field.Value
}

// File returns the stored file of the last file field with the given name.
func (f Form) File(name string) (*tempstore.File, bool) {
	field, ok := f.Get(name)
	if !ok || !field.IsFile() {
		return nil, false
	}
	return field.File, true
}

// Values flattens the text fields into a map. Later fields override earlier
// fields of the same name.
func (f Form) Values() map[string]string {
	out := make(map[string]string, len(f))
	for _, field := range f {
		if !field.IsFile() {
			out[field.Name] = field.Value
		}
	}
	return out
}
