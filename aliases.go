package geostd

// countryAliases maps common abbreviations and variants to the normalized
// canonical country name they stand for. This is static domain knowledge,
// not snapshot data; keep it as a reviewable list.
var countryAliases = map[string]string{
	"us":                       "united states",
	"usa":                      "united states",
	"u.s.":                     "united states",
	"u.s.a.":                   "united states",
	"america":                  "united states",
	"united states of america": "united states",
	"uk":                       "united kingdom",
	"gb":                       "united kingdom",
	"great britain":            "united kingdom",
	"england":                  "united kingdom",
	"can":                      "canada",
	"aus":                      "australia",
	"de":                       "germany",
	"fr":                       "france",
	"jp":                       "japan",
	"cn":                       "china",
	"in":                       "india",
	"br":                       "brazil",
	"mx":                       "mexico",
	"sg":                       "singapore",
	"my":                       "malaysia",
	"th":                       "thailand",
	"kr":                       "south korea",
	"korea":                    "south korea",
	"it":                       "italy",
	"es":                       "spain",
	"nl":                       "netherlands",
	"holland":                  "netherlands",
	"se":                       "sweden",
	"no":                       "norway",
	"dk":                       "denmark",
	"fi":                       "finland",
	"ch":                       "switzerland",
	"at":                       "austria",
	"be":                       "belgium",
	"ie":                       "ireland",
	"nz":                       "new zealand",
	"za":                       "south africa",
	"eg":                       "egypt",
	"il":                       "israel",
	"tr":                       "turkey",
	"ru":                       "russia",
	"pl":                       "poland",
	"cz":                       "czech republic",
	"czechia":                  "czech republic",
	"hu":                       "hungary",
	"pt":                       "portugal",
	"gr":                       "greece",
	"uae":                      "united arab emirates",
}

// stateAliases maps informal state names to the normalized canonical
// state name.
var stateAliases = map[string]string{
	"cali":            "california",
	"calif":           "california",
	"ny":              "new york",
	"dc":              "district of columbia",
	"washington dc":   "district of columbia",
	"washington d.c.": "district of columbia",
	"d.c.":            "district of columbia",
}
