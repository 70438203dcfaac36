package repository

const (
	DefaultPageSize = 10
	PageMinSize     = 5
	PageMaxSize     = 30
)

// PageVerify resets out-of-range page sizes to DefaultPageSize
func PageVerify(size *int64) {
	if *size < PageMinSize || *size > PageMaxSize {
		*size = DefaultPageSize
	}
}
