package pagination

// CursorRequest is bound from the cursor and size query parameters.
type CursorRequest struct {
	Cursor string `query:"cursor"`
	Size   int    `query:"size"`
}

// Normalize clamps Size into [1, PageMaxSize], using PageDefaultSize when unset.
func (r *CursorRequest) Normalize() {
	if r.Size <= 0 {
		r.Size = PageDefaultSize
	}
	if r.Size > PageMaxSize {
		r.Size = PageMaxSize
	}
}

// Fetch is the number of rows to read for one page.
func (r CursorRequest) Fetch() int {
	return r.Size + 1
}
