package documents

import "strconv"

func formatSize(n int64) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
	)
	switch {
	case n >= mb:
		return strconv.FormatFloat(float64(n)/mb, 'f', 1, 64) + " MB"
	case n >= kb:
		return strconv.FormatInt(n/kb, 10) + " KB"
	default:
		return strconv.FormatInt(n, 10) + " B"
	}
}
