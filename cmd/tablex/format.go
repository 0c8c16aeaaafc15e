package main

import "fmt"

// shortURL keeps the last n bytes of rawURL, marking a cut with "...".
func shortURL(rawURL string, n int) string {
	switch {
	case len(rawURL) <= n:
		return rawURL
	case n <= 3:
		return rawURL[:max(n, 0)]
	}
	return "..." + rawURL[len(rawURL)-(n-3):]
}

// byteSize prints a page size with one decimal in the largest fitting unit.
func byteSize(n int) string {
	size, unit := float64(n), 0
	units := []string{"B", "KB", "MB", "GB"}
	for size >= 1024 && unit < len(units)-1 {
		size /= 1024
		unit++
	}
	if unit == 0 {
		return fmt.Sprintf("%d B", n)
	}
	return fmt.Sprintf("%.1f %s", size, units[unit])
}
