package bot

import (
	"fmt"
	"math/rand"
	"strings"
)

var nameAdjectives = []string{
	"Silent", "Swift", "Crimson", "Golden", "Shadow", "Iron", "Emerald",
	"Azure", "Solar", "Arctic", "Ghost", "Storm", "Phantom", "Noble",
	"Rapid", "Quantum", "Stellar", "Velvet", "Frost", "Lunar", "Scarlet",
	"Cobalt", "Ivory", "Copper", "Obsidian", "Vivid", "Brisk", "Ancient",
	"Arcane", "Brave", "Cerulean", "Daring", "Glacial", "Kindle",
	"Mighty", "Nebula", "Opal", "Quicksilver", "Radiant", "Sable",
	"Titan", "Umbral", "Vortex", "Warden", "Zen",
}

var nameNouns = []string{
	"Fox", "Wolf", "Tiger", "Falcon", "Raven", "Cobra", "Eagle",
	"Panther", "Dragon", "Viper", "Hawk", "Lynx", "Cougar", "Orion",
	"Nova", "Comet", "Pioneer", "Atlas", "Knight", "Voyager", "Specter",
	"Paladin", "Sentinel", "Strider", "Nomad", "Raider", "Ranger",
	"Wraith", "Sphinx", "Drifter", "Griffin", "Marauder", "Harrier",
	"Corsair", "Seeker", "Vector", "Cipher", "Zenith", "Nimbus",
	"Axiom", "Mirage",
}

var namePrefixes = []string{
	"Neo", "Ultra", "Hyper", "Prime", "Alpha", "Omega", "Proto", "Echo",
	"Nova", "Retro",
}

var nameSuffixes = []string{
	"AI", "X", "XR", "VX", "Prime", "Core", "OS", "Edge", "Pulse",
}

// GenerateName produces a natural-looking display name so bots blend
// into the lobby.
func GenerateName() string {
	adjective := pick(nameAdjectives)
	noun := pick(nameNouns)
	number := 10 + rand.Intn(990)

	var base string
	switch rand.Intn(5) {
	case 0:
		base = fmt.Sprintf("%s%s%d", pick(namePrefixes), noun, number)
	case 1:
		base = adjective + noun + pick(nameSuffixes)
	case 2:
		base = adjective + " " + noun
	case 3:
		base = fmt.Sprintf("%s%s-%d", adjective, pick(namePrefixes), number)
	default:
		base = shuffleSegments(adjective, noun, fmt.Sprintf("%d", number))
	}

	return randomizeCase(base)
}

func pick(items []string) string {
	return items[rand.Intn(len(items))]
}

func shuffleSegments(segments ...string) string {
	rand.Shuffle(len(segments), func(i, j int) {
		segments[i], segments[j] = segments[j], segments[i]
	})
	joiner := pick([]string{"", "_", "-"})
	return strings.Join(segments, joiner)
}

func titleCase(value string) string {
	var sb strings.Builder
	startOfWord := true
	for _, r := range strings.ToLower(value) {
		if startOfWord {
			sb.WriteString(strings.ToUpper(string(r)))
		} else {
			sb.WriteRune(r)
		}
		startOfWord = r == ' ' || r == '-' || r == '_'
	}
	return sb.String()
}

func randomizeCase(value string) string {
	switch rand.Intn(5) {
	case 0:
		return titleCase(value)
	case 1:
		return strings.ToLower(value)
	case 2:
		return strings.ToUpper(value)
	case 3:
		var sb strings.Builder
		for i, r := range value {
			if i%2 == 0 {
				sb.WriteString(strings.ToUpper(string(r)))
			} else {
				sb.WriteString(strings.ToLower(string(r)))
			}
		}
		return sb.String()
	default:
		var sb strings.Builder
		for _, r := range value {
			if rand.Intn(2) == 0 {
				sb.WriteString(strings.ToUpper(string(r)))
			} else {
				sb.WriteString(strings.ToLower(string(r)))
			}
		}
		return sb.String()
	}
}
