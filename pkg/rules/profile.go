package rules

// Authority identifies the registration authority a client is licensed
// under.
type Authority string

// Registration authorities with a dedicated issuing-entity profile. Any
// other value falls back to the default profile.
const (
	AuthorityDubaiDED Authority = "dubai-ded"
	AuthorityDMCC     Authority = "dmcc"
	AuthorityJAFZA    Authority = "jafza"
	AuthorityDIFC     Authority = "difc"
	AuthorityADGM     Authority = "adgm"
)

// EntityProfile is the fixed contact, identifier and signature bundle of
// one issuing legal entity. Letters and emails generated for a client are
// issued under exactly one profile.
type EntityProfile struct {
	Code         string
	LegalName    string
	TRN          string
	ContactBlock string
	Phone        string
	Email        string
	StampAsset   string
}

// defaultProfile is the documented fallback for unmapped authorities.
var defaultProfile = EntityProfile{
	Code:         "TDMC",
	LegalName:    "TaxDesk Management Consultancies L.L.C.",
	TRN:          "100234567800003",
	ContactBlock: "Office 1204, Bay Gate Tower, Business Bay, Dubai, UAE",
	Phone:        "+971 4 555 0120",
	Email:        "letters@taxdesk.ae",
	StampAsset:   "stamp_tdmc.png",
}

// profiles maps each mapped authority to its issuing entity.
var profiles = map[Authority]EntityProfile{
	AuthorityDubaiDED: defaultProfile,
	AuthorityDMCC: {
		Code:         "TDFZ",
		LegalName:    "TaxDesk Corporate Services FZ-L.L.C.",
		TRN:          "100234567800011",
		ContactBlock: "Unit 2507, JBC 2, Jumeirah Lakes Towers, Dubai, UAE",
		Phone:        "+971 4 555 0140",
		Email:        "freezone@taxdesk.ae",
		StampAsset:   "stamp_tdfz.png",
	},
	AuthorityJAFZA: {
		Code:         "TDFZ",
		LegalName:    "TaxDesk Corporate Services FZ-L.L.C.",
		TRN:          "100234567800011",
		ContactBlock: "Unit 2507, JBC 2, Jumeirah Lakes Towers, Dubai, UAE",
		Phone:        "+971 4 555 0140",
		Email:        "freezone@taxdesk.ae",
		StampAsset:   "stamp_tdfz.png",
	},
	AuthorityDIFC: {
		Code:         "TDFS",
		LegalName:    "TaxDesk Financial Services Ltd.",
		TRN:          "100234567800029",
		ContactBlock: "Level 3, Gate Village 7, DIFC, Dubai, UAE",
		Phone:        "+971 4 555 0160",
		Email:        "difc@taxdesk.ae",
		StampAsset:   "stamp_tdfs.png",
	},
	AuthorityADGM: {
		Code:         "TDFS",
		LegalName:    "TaxDesk Financial Services Ltd.",
		TRN:          "100234567800029",
		ContactBlock: "Level 3, Gate Village 7, DIFC, Dubai, UAE",
		Phone:        "+971 4 555 0160",
		Email:        "difc@taxdesk.ae",
		StampAsset:   "stamp_tdfs.png",
	},
}

// ProfileFor maps a registration authority to its issuing-entity profile.
// The mapping is total: unmapped authorities return the default profile,
// never a zero value.
func ProfileFor(a Authority) EntityProfile {
	if p, ok := profiles[a]; ok {
		return p
	}
	return defaultProfile
}
