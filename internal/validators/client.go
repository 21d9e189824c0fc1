package validators

const (
	DniLength   = 8
	PhoneLength = 9
)

func IsDni(s string) bool {
	return isDigits(s, DniLength)
}

// IsPhone valida apenas tamanho e dígitos; o prefixo 9 é convenção da UI.
func IsPhone(s string) bool {
	return isDigits(s, PhoneLength)
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
