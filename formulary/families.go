package formulary

import "sort"

// families maps a family key, as staff might write it in an allergy list,
// to the member drug substrings used for cross-reactivity checks. Keys and
// members are normalized. The set is closed; membership is substring-based
// and advisory, not a clinical classification.
var families = map[string][]string{
	"penicilina":        {"penicilina", "amoxicilina", "ampicilina", "benzilpenicilina", "oxacilina", "piperacilina"},
	"cefalosporina":     {"cefalexina", "cefazolina", "cefuroxima", "ceftriaxona", "cefepima", "cefalotina"},
	"carbapenemico":     {"imipenem", "meropenem", "ertapenem"},
	"betalactamico":     {"penicilina", "amoxicilina", "ampicilina", "cefalexina", "ceftriaxona", "cefuroxima", "meropenem"},
	"aines":             {"ibuprofeno", "diclofenaco", "naproxeno", "cetoprofeno", "nimesulida", "piroxicam", "meloxicam", "cetorolaco", "acido acetilsalicilico"},
	"salicilato":        {"acido acetilsalicilico", "salicilato", "salicilamida"},
	"pirazolona":        {"dipirona", "fenilbutazona", "propifenazona"},
	"sulfa":             {"sulfametoxazol", "sulfadiazina", "sulfassalazina", "sulfanilamida"},
	"macrolideo":        {"eritromicina", "azitromicina", "claritromicina"},
	"quinolona":         {"ciprofloxacino", "levofloxacino", "norfloxacino", "moxifloxacino"},
	"tetraciclina":      {"tetraciclina", "doxiciclina", "minociclina"},
	"aminoglicosideo":   {"gentamicina", "amicacina", "tobramicina", "neomicina"},
	"lincosamida":       {"clindamicina", "lincomicina"},
	"glicopeptideo":     {"vancomicina", "teicoplanina"},
	"nitroimidazol":     {"metronidazol", "tinidazol", "secnidazol"},
	"antifungico":       {"fluconazol", "cetoconazol", "itraconazol", "nistatina", "anfotericina"},
	"antiviral":         {"aciclovir", "oseltamivir", "valaciclovir"},
	"antiparasitario":   {"albendazol", "mebendazol", "ivermectina"},
	"opioide":           {"morfina", "codeina", "tramadol", "oxicodona", "fentanil", "metadona"},
	"anticonvulsivante": {"fenitoina", "carbamazepina", "fenobarbital", "acido valproico", "lamotrigina"},
	"benzodiazepinico":  {"diazepam", "clonazepam", "midazolam", "lorazepam", "alprazolam"},
	"barbiturico":       {"fenobarbital", "tiopental", "pentobarbital"},
	"antihistaminico":   {"loratadina", "cetirizina", "dexclorfeniramina", "prometazina", "hidroxizina", "dimenidrinato"},
	"corticoide":        {"prednisona", "prednisolona", "dexametasona", "hidrocortisona", "betametasona"},
	"estatina":          {"sinvastatina", "atorvastatina", "rosuvastatina"},
	"ieca":              {"captopril", "enalapril", "lisinopril", "ramipril"},
	"betabloqueador":    {"propranolol", "atenolol", "metoprolol", "carvedilol"},
	"anestesico":        {"lidocaina", "bupivacaina", "prilocaina", "benzocaina", "procaina"},
	"antiemetico":       {"ondansetrona", "metoclopramida", "bromoprida", "dimenidrinato"},
	"antiacido":         {"omeprazol", "pantoprazol", "esomeprazol", "ranitidina"},
	"insulina":          {"insulina"},
	"iodo":              {"iodopovidona", "contraste iodado", "iodeto"},
	"antidepressivo":    {"fluoxetina", "sertralina", "paroxetina", "escitalopram", "amitriptilina"},
	"relaxante":         {"ciclobenzaprina", "orfenadrina", "carisoprodol"},
	"triptano":          {"sumatriptana", "naratriptana", "zolmitriptana"},
}

// familyKeys is the sorted key list, so that family scans are
// deterministic across runs.
var familyKeys = func() []string {
	keys := make([]string, 0, len(families))
	for key := range families {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}()

// Families returns the family table. Callers must treat it as read-only.
func Families() map[string][]string {
	return families
}

// FamilyKeys returns the family keys in sorted order.
func FamilyKeys() []string {
	return familyKeys
}

// FamilyMembers returns the member substrings for a family key.
func FamilyMembers(key string) ([]string, bool) {
	members, ok := families[key]
	return members, ok
}
