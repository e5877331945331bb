package usecase

// ValidateMilestoneName checks a milestone key is usable as an open-set map
// key: non-empty, bounded, lowercase snake_case. The vocabulary itself is not
// constrained.
func ValidateMilestoneName(name string) bool {
	if name == "" || len(name) > 64 {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '_':
		default:
			return false
		}
	}
	return true
}
