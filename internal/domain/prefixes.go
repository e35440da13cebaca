package domain

// prefixPairs maps callsign prefixes to ISO-3166 alpha-2 country codes.
// Declared order is the match order: more specific prefixes (for example
// "OH0" ahead of "OH", "HB9" ahead of a bare match on "H") must appear
// before the shorter entries they override. The data is intentionally
// incomplete and uneven (DX real life); apparent redundancy is kept as-is.
// Duplicate prefixes keep the last assigned country code at the position
// of the first declaration (see buildPrefixTable).
var prefixPairs = []PrefixEntry{
	// Europe
	{"DL", "DE"}, {"DA", "DE"}, {"DB", "DE"}, {"DC", "DE"}, {"DD", "DE"}, {"DE", "DE"}, {"DF", "DE"}, {"DG", "DE"}, {"DH", "DE"}, {"DJ", "DE"}, {"DK", "DE"}, {"DM", "DE"}, {"DN", "DE"}, {"DO", "DE"},
	{"OE", "AT"}, {"OK", "CZ"}, {"OM", "SK"}, {"HA", "HU"}, {"SP", "PL"}, {"S5", "SI"}, {"9A", "HR"}, {"YU", "RS"}, {"YT", "RS"}, {"YL", "LV"}, {"ES", "EE"}, {"LY", "LT"},
	{"OH0", "AX"}, {"OH", "FI"}, {"SM", "SE"}, {"LA", "NO"}, {"OZ", "DK"}, {"TF", "IS"}, {"EI", "IE"}, {"PA", "NL"}, {"ON", "BE"}, {"LX", "LU"}, {"HB9", "CH"}, {"HB3", "CH"}, {"HB0", "LI"},
	{"F", "FR"}, {"TM", "FR"}, {"TK", "FR"}, {"EA", "ES"}, {"EB", "ES"}, {"EC", "ES"}, {"ED", "ES"}, {"EE", "ES"}, {"EF", "ES"}, {"EG", "ES"}, {"EH", "ES"}, {"CT", "PT"}, {"CU", "PT"},
	{"I", "IT"}, {"IS", "IT"}, {"IZ", "IT"}, {"IN", "IT"}, {"IW", "IT"}, {"IV", "IT"}, {"SV", "GR"}, {"SW", "GR"}, {"SX", "GR"}, {"SY", "GR"},
	{"YO", "RO"}, {"YR", "RO"}, {"LZ", "BG"}, {"E7", "BA"}, {"Z3", "MK"}, {"9H", "MT"}, {"ER", "MD"}, {"UA2", "RU"}, {"R2", "RU"}, {"R3", "RU"}, {"UA3", "RU"}, {"UA1", "RU"}, {"R1", "RU"},
	{"UA", "RU"}, {"UB", "RU"}, {"UC", "RU"}, {"UD", "RU"}, {"UE", "RU"}, {"UF", "RU"}, {"UG", "RU"}, {"UH", "RU"}, {"UI", "RU"},
	{"US", "UA"}, {"UR", "UA"}, {"UT", "UA"}, {"UU", "UA"}, {"UV", "UA"}, {"UW", "UA"}, {"UX", "UA"}, {"UY", "UA"}, {"UZ", "UA"},
	{"LY", "LT"}, {"ES", "EE"}, {"OH0", "AX"}, {"OY", "FO"}, {"OX", "GL"}, {"TF", "IS"},
	{"CN", "MA"}, {"EA8", "ES"}, {"CT9", "PT"}, {"IS0", "IT"},
	{"TA", "TR"}, {"TC", "TR"},

	// United Kingdom
	{"G", "GB"}, {"M", "GB"}, {"2E", "GB"}, {"GM", "GB"}, {"GW", "GB"}, {"GI", "GB"}, {"GD", "GB"}, {"GU", "GB"}, {"GH", "GB"}, {"GT", "GB"}, {"MB", "GB"}, {"GB", "GB"},

	// Scandinavia & Baltics
	{"LA", "NO"}, {"LB", "NO"}, {"LC", "NO"}, {"LD", "NO"}, {"LG", "NO"}, {"LH", "NO"}, {"LI", "NO"}, {"LN", "NO"},
	{"OH", "FI"}, {"OF", "FI"}, {"OG", "FI"}, {"OJ", "FI"}, {"OH0", "AX"},
	{"SM", "SE"}, {"7S", "SE"}, {"SB", "SE"}, {"SI", "SE"}, {"SL", "SE"},
	{"OZ", "DK"}, {"OV", "DK"}, {"5P", "DK"}, {"5Q", "DK"},

	// North America
	{"K", "US"}, {"N", "US"}, {"W", "US"}, {"AA", "US"}, {"AB", "US"}, {"AC", "US"}, {"AD", "US"}, {"AE", "US"}, {"AF", "US"}, {"AG", "US"}, {"AI", "US"}, {"AJ", "US"}, {"AK", "US"},
	{"KL", "US"}, {"KH6", "US"}, {"WH6", "US"}, {"KH7", "US"}, {"KH8", "AS"}, {"KH9", "UM"}, {"KP4", "PR"}, {"KP2", "VI"}, {"NP4", "PR"}, {"WP4", "PR"},
	{"VE", "CA"}, {"VA", "CA"}, {"VY", "CA"}, {"VO", "CA"}, {"CY", "CA"}, {"CZ", "CA"}, {"CG", "CA"},

	// Central & South America
	{"HC", "EC"}, {"HD", "EC"}, {"OA", "PE"}, {"OB", "PE"}, {"TI", "CR"}, {"TE", "CR"}, {"TG", "GT"}, {"YN", "NI"}, {"YS", "SV"}, {"HP", "PA"}, {"HO", "PA"}, {"HH", "HT"},
	{"HI", "DO"}, {"CP", "BO"}, {"CE", "CL"}, {"CA", "CL"}, {"CB", "CL"}, {"CC", "CL"}, {"CD", "CL"}, {"3G", "CL"},
	{"CX", "UY"}, {"LU", "AR"}, {"LW", "AR"}, {"LR", "AR"}, {"LS", "AR"}, {"LT", "AR"}, {"LV", "AR"}, {"PU", "BR"}, {"PY", "BR"}, {"PP", "BR"}, {"PQ", "BR"}, {"PR", "BR"},
	{"PZ", "SR"}, {"HC8", "EC"}, {"PJ2", "CW"}, {"PJ4", "BQ"}, {"PJ5", "BQ"}, {"PJ7", "BQ"},

	// Caribbean
	{"J3", "GD"}, {"J7", "DM"}, {"J8", "VC"}, {"9Y", "TT"}, {"9Z", "TT"}, {"VP2E", "AI"}, {"VP2M", "MS"}, {"VP2V", "VG"}, {"VP5", "TC"}, {"VP6", "PN"}, {"VP9", "BM"}, {"ZF", "KY"},
	{"CM", "CU"}, {"CO", "CU"}, {"T4", "CU"}, {"C6", "BS"}, {"PJ", "BQ"},

	// Africa
	{"ZS", "ZA"}, {"ZR", "ZA"}, {"ZU", "ZA"}, {"5R", "MG"}, {"5T", "MR"}, {"5U", "NE"}, {"5V", "TG"}, {"5X", "UG"}, {"5Z", "KE"}, {"6O", "SO"}, {"6V", "SN"}, {"6W", "SN"}, {"7O", "YE"},
	{"7P", "LS"}, {"7Q", "MW"}, {"7X", "DZ"}, {"9G", "GH"}, {"9J", "ZM"}, {"9L", "SL"}, {"9Q", "CD"}, {"9U", "BI"}, {"9X", "RW"}, {"D2", "AO"}, {"D4", "CV"}, {"D6", "KM"},
	{"EL", "LR"}, {"ET", "ET"}, {"S7", "SC"}, {"ST", "SD"}, {"SU", "EG"}, {"TJ", "CM"}, {"TN", "CG"}, {"TR", "GA"}, {"TT", "TD"}, {"TZ", "ML"}, {"V5", "NA"}, {"ZD7", "SH"}, {"ZD8", "SH"}, {"ZD9", "SH"},

	// Middle East
	{"4X", "IL"}, {"4Z", "IL"}, {"5B", "CY"}, {"C4", "CY"}, {"H2", "CY"}, {"E3", "ER"}, {"EK", "AM"}, {"EP", "IR"}, {"EQ", "IR"}, {"HZ", "SA"}, {"7Z", "SA"}, {"8Z", "SA"}, {"A4", "OM"},
	{"A6", "AE"}, {"A7", "QA"}, {"A9", "BH"}, {"AP", "PK"}, {"YA", "AF"}, {"T6", "AF"}, {"YK", "SY"}, {"YI", "IQ"}, {"9K", "KW"},

	// Asia
	{"VU", "IN"}, {"VT", "IN"}, {"AT", "IN"}, {"8T", "IN"}, {"8Q", "MV"}, {"9N", "NP"}, {"EY", "TJ"}, {"EX", "KG"}, {"EZ", "TM"}, {"HL", "KR"}, {"DS", "KR"}, {"DT", "KR"},
	{"JA", "JP"}, {"JE", "JP"}, {"JF", "JP"}, {"JG", "JP"}, {"JH", "JP"}, {"JI", "JP"}, {"JJ", "JP"}, {"JK", "JP"}, {"JL", "JP"}, {"JM", "JP"}, {"JN", "JP"}, {"JO", "JP"}, {"JR", "JP"},
	{"BV", "TW"}, {"BX", "TW"}, {"BY", "CN"}, {"BD", "CN"}, {"BG", "CN"}, {"BH", "CN"}, {"BL", "CN"}, {"BM", "CN"}, {"BN", "CN"}, {"BT", "CN"},
	{"HS", "TH"}, {"E2", "TH"}, {"9M2", "MY"}, {"9M6", "MY"}, {"9M8", "MY"}, {"9V", "SG"}, {"YB", "ID"}, {"YC", "ID"}, {"YE", "ID"}, {"PK", "ID"}, {"PL", "ID"}, {"PM", "ID"}, {"PN", "ID"},
	{"9M", "MY"}, {"9V", "SG"}, {"9W", "MY"}, {"VR", "HK"}, {"DU", "PH"}, {"DV", "PH"}, {"DW", "PH"}, {"DX", "PH"}, {"DY", "PH"}, {"DZ", "PH"}, {"VU", "IN"},

	// Oceania
	{"VK", "AU"}, {"AX", "AU"}, {"VI", "AU"}, {"ZL", "NZ"}, {"3D2", "FJ"}, {"A3", "TO"}, {"E5", "CK"}, {"T30", "KI"}, {"T31", "KI"}, {"T32", "KI"}, {"T33", "KI"},
	{"5W", "WS"}, {"YJ", "VU"}, {"P2", "PG"}, {"C2", "NR"}, {"T2", "TV"}, {"ZK1", "CK"}, {"ZK3", "TK"}, {"A2", "BW"}, {"H40", "SB"}, {"H44", "SB"}, {"FK", "NC"}, {"FO", "PF"}, {"FW", "WF"},

	// Antarctica & territories
	{"VP8", "FK"}, {"CE9", "AQ"}, {"RI1A", "AQ"}, {"DP1", "AQ"}, {"KC4", "AQ"}, {"LU1Z", "AQ"}, {"VK0", "AQ"}, {"ZL5", "AQ"}, {"ZS7", "AQ"},

	// Special event calls
	{"AM", "ES"}, {"AN", "ES"}, {"AO", "ES"}, {"EG", "ES"}, {"EH", "ES"}, {"EM", "UA"}, {"EN", "UA"}, {"EO", "UA"},
}
