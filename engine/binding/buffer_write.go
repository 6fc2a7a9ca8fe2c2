package binding

// BufferWrite describes a single GPU buffer write targeting a registry slot at a given byte offset.
type BufferWrite struct {
	Slot   Slot
	Offset uint64
	Data   []byte
}

// End returns the first byte past the write.
func (w BufferWrite) End() uint64 {
	return w.Offset + uint64(len(w.Data))
}
