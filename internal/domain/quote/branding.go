package quote

// Branding is the company identity printed on exported documents.
type Branding struct {
	CompanyName string
	Tagline     string
	Contact     string
	// LogoURL is absolute; empty prints CompanyName instead.
	LogoURL     string
}

func DefaultBranding() Branding {
	return Branding{
		CompanyName: "TOMATO CR",
		Tagline:     "Jardinería · Paisajismo · Mantenimiento",
		Contact:     "WhatsApp: +506 7080 8613 | www.tomatocr.com | Alajuela, Costa Rica",
	}
}
