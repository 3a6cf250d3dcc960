package chat

// SpeciesTable maps a species id to its localized display name. It is loaded
// once at process start and never mutated afterwards.
type SpeciesTable map[int]string

// Name looks up the display name for an id.
func (t SpeciesTable) Name(id int) (string, bool) {
	name, ok := t[id]
	return name, ok
}
