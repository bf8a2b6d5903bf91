package ptr

func ToString(s string) *string {
	return &s
}

func ToInt(i int) *int {
	return &i
}

func ToUint(i uint) *uint {
	return &i
}

func FromString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
