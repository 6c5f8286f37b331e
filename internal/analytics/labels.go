package analytics

import "strings"

const shortLabelLimit = 30

var shortLabels = map[string]string{
	"Construction of roads, link roads, pathways or any other road with or without drainage system":          "Roads & Connectivity",
	"Purchase of vans and buses for educational institutions":                                                "Educational Vehicles",
	"Purchase of IT systems, including hardware and software for educational purposes":                       "IT Systems (Edu)",
	"Construction of rooms and halls in school and colleges":                                                 "School Buildings",
	"Lighting of public spaces":                                                                              "Public Lighting",
	"Construction of buildings for crèches and anganwadies":                                                  "Anganwadi Buildings",
	"Purchase of vehicle for mobile dispensaries (Four, three and two wheelers)":                             "Mobile Dispensaries",
	"Construction of culverts and bridges":                                                                   "Culverts & Bridges",
	"Purchase of hospital equipment":                                                                         "Hospital Equipment",
	"Construction of community centers and community halls":                                                 "Community Halls",
	"Purchase of ambulances (Four, three and two wheelers)":                                                  "Ambulances",
	"Construction of public libraries and reading rooms":                                                     "Libraries",
	"Development of playfields and sports grounds":                                                           "Sports Grounds",
	"Construction of rooms and facilities for hospitals, FWC , PHC Centers and ANM centers":                  "Healthcare Facilities",
	"Purchase of furniture and fixtures for educational purposes":                                            "School Furniture",
	"Street lights":                                                                                          "Street Lights",
	"Improvement of electricity distribution infrastructure":                                                 "Electricity Infra",
	"Construction of footpaths and pedestrian ways":                                                          "Footpaths",
	"Setting up of laboratories":                                                                             "Laboratories",
	"Purchase of prosthetics, wheel chairs, tricycles (manual or motorized), elect scooties, hearing aids":   "Disability Aids",
	"Construction of flood control embankments/ protection walls along riverbanks, hilltops, roadsides":     "Flood Control",
	"Construction of buildings for community cultural activities":                                            "Cultural Buildings",
	"Providing supply pipelines for drinking water":                                                          "Water Supply",
	"Construction of boundary walls of existing public and community buildings":                              "Boundary Walls",
	"Setting up public non-conventional energy plants":                                                       "Renewable Energy",
	"Construction of buildings for sports facilities":                                                        "Sports Buildings",
	"Forest conservation infrastructure":                                                                     "Forest Conservation",
	"Development of playground":                                                                              "Playground Dev",
	"Setting up of kitchen and pantries":                                                                     "Kitchen & Pantry",
	"Installation of multi-gym equipment":                                                                    "Gym Equipment",
	"Purchase of smart boards, visual display units and projectors":                                          "Smart Boards",
	"Purchase of books for public libraries/ digitization of library books":                                  "Library Books",
	"Purchase of books and periodicals for libraries/digitization of library books":                          "Library Books",
}

// ShortLabel maps a long MPLADS work category onto its chart label. Unknown
// labels longer than 30 characters are cut and given an ellipsis.
func ShortLabel(label string) string {
	if short, ok := shortLabels[label]; ok {
		return short
	}
	runes := []rune(label)
	if len(runes) > shortLabelLimit {
		return string(runes[:shortLabelLimit]) + "..."
	}
	return label
}

var palette = [...]string{
	"#3B82F6",
	"#13ECB2",
	"#F59E0B",
	"#8B5CF6",
	"#EF4444",
	"#14B8A6",
	"#EC4899",
	"#6366F1",
	"#10B981",
	"#F97316",
	"#6B7280",
}

// CategoryColor returns the chart colour of the i-th category. Colours
// cycle through the palette; negative indices wrap.
func CategoryColor(i int) string {
	n := len(palette)
	return palette[((i%n)+n)%n]
}

// Icon names understood by the dashboard's icon font.
const (
	IconTransport = "directions_car"
	IconMedical   = "medical_services"
	IconEducation = "school"
	IconLighting  = "lightbulb"
	IconWater     = "water_drop"
	IconSports    = "sports_soccer"
	IconCommunity = "groups"
	IconChildcare = "child_care"
	IconVehicle   = "directions_bus"
	IconCategory  = "category"
)

type iconRule struct {
	icon     string
	keywords []string
}

// Rules are tried in order and the first match wins.
var iconRules = []iconRule{
	{IconTransport, []string{"road", "bridge", "culvert"}},
	{IconMedical, []string{"health", "hospital", "ambulance", "dispensar"}},
	{IconEducation, []string{"school", "education", "college", "it system"}},
	{IconLighting, []string{"light"}},
	{IconWater, []string{"water", "sanitation"}},
	{IconSports, []string{"sport", "playground", "gym"}},
	{IconCommunity, []string{"community", "cultural", "library"}},
	{IconChildcare, []string{"anganwadi", "crèche"}},
	{IconVehicle, []string{"vehicle", "van", "bus"}},
}

// CategoryIcon picks an icon for a category label by keyword.
func CategoryIcon(label string) string {
	l := strings.ToLower(label)
	for _, rule := range iconRules {
		for _, kw := range rule.keywords {
			if strings.Contains(l, kw) {
				return rule.icon
			}
		}
	}
	return IconCategory
}
