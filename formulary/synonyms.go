// Package formulary holds the static drug-name tables: brand-name synonyms
// and drug families. Both are read-only after package initialization and
// keyed by normalized (lowercase, accent-free) names.
package formulary

// synonyms maps known brand or alternate spellings to the canonical
// ingredient name. Lookup is exact-match only, no fuzzy matching.
var synonyms = map[string]string{
	"tylenol":       "paracetamol",
	"acetaminofeno": "paracetamol",
	"novalgina":     "dipirona",
	"anador":        "dipirona",
	"metamizol":     "dipirona",
	"advil":         "ibuprofeno",
	"alivium":       "ibuprofeno",
	"aspirina":      "acido acetilsalicilico",
	"aas":           "acido acetilsalicilico",
	"amoxil":        "amoxicilina",
	"clavulin":      "amoxicilina",
	"bactrim":       "sulfametoxazol",
	"keflex":        "cefalexina",
	"rocefin":       "ceftriaxona",
	"zitromax":      "azitromicina",
	"klaricid":      "claritromicina",
	"cipro":         "ciprofloxacino",
	"flagyl":        "metronidazol",
	"voltaren":      "diclofenaco",
	"cataflam":      "diclofenaco",
	"feldene":       "piroxicam",
	"nisulid":       "nimesulida",
	"profenid":      "cetoprofeno",
	"tramal":        "tramadol",
	"dimorf":        "morfina",
	"rivotril":      "clonazepam",
	"valium":        "diazepam",
	"dormonid":      "midazolam",
	"gardenal":      "fenobarbital",
	"hidantal":      "fenitoina",
	"tegretol":      "carbamazepina",
	"depakene":      "acido valproico",
	"predsim":       "prednisolona",
	"decadron":      "dexametasona",
	"polaramine":    "dexclorfeniramina",
	"claritin":      "loratadina",
	"zyrtec":        "cetirizina",
	"fenergan":      "prometazina",
	"losec":         "omeprazol",
	"plasil":        "metoclopramida",
	"vonau":         "ondansetrona",
	"dramin":        "dimenidrinato",
	"buscopan":      "escopolamina",
	"xilocaina":     "lidocaina",
	"prozac":        "fluoxetina",
	"zoloft":        "sertralina",
	"miosan":        "ciclobenzaprina",
}

// ResolveSynonym maps a normalized drug-name fragment to its canonical
// ingredient name. Unknown names come back unchanged.
func ResolveSynonym(name string) string {
	if canonical, ok := synonyms[name]; ok {
		return canonical
	}
	return name
}
