package intent

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mohammad-safakhou/spacebio/internal/helpers"
)

type Intent string

const (
	Chitchat   Intent = "chitchat"
	Capability Intent = "capability"
	Domain     Intent = "domain"
	Generic    Intent = "generic"
)

// Result is the outcome of Classify. Domain reports whether the text
// mentions a space-biology term, whatever the winning intent.
type Result struct {
	Intent     Intent `json:"intent"`
	Domain     bool   `json:"domain"`
	Normalized string `json:"-"`
}

// maxGreetingWords bounds how long a message may be and still count as
// small talk.
const maxGreetingWords = 6

var greeting = regexp.MustCompile(`^(?:hi|hello|hey|hiya|yo|howdy|good (?:morning|afternoon|evening)|how are you|` +
	`hola|buenos dias|buenas(?: tardes| noches)?|que tal|` +
	`bonjour|bonsoir|salut|coucou|` +
	`ola|oi|bom dia|boa (?:tarde|noite)|` +
	`hallo|guten (?:morgen|tag|abend)|servus|` +
	`thanks|thank you|thx|cheers|gracias|merci|obrigad[oa]|danke|` +
	`bye|goodbye|see you|adios|hasta luego|au revoir|tchau|tschuss|ciao)\b`)

var capabilityPatterns = []string{
	"what can you do", "what do you do", "who are you", "what are you", "how do you work",
	"what can i ask", "what do you know", "what topics", "help me use", "are you a bot",
	"que puedes hacer", "quien eres", "que sabes", "como funcionas",
	"que peux-tu faire", "que pouvez-vous faire", "qui es-tu", "qui etes-vous", "tu peux faire quoi",
	"o que voce pode fazer", "o que voce faz", "quem e voce", "como voce funciona",
	"was kannst du", "wer bist du", "was weisst du", "wie funktionierst du",
}

// domainTerms longer than four runes match at the start of a token, so stems
// like "genom" cover "genomic"; shorter terms must be whole tokens.
var domainTerms = []string{
	// en
	"microgravity", "weightless", "spaceflight", "space flight", "space station", "iss", "nasa",
	"astronaut", "cosmonaut", "space biology", "space radiation", "cosmic ray", "radiation",
	"bone", "bones", "muscle", "atrophy", "mice", "mouse", "rodent", "arabidopsis", "plant growth",
	"gene expression", "genetic", "genom", "transcriptom", "microbio", "bacteria", "cells",
	"cellular", "immune", "cardiovascular", "hindlimb unloading", "moon", "mars", "lunar", "orbit",
	// es
	"microgravedad", "ingravidez", "vuelo espacial", "estacion espacial", "astronauta",
	"radiacion", "hueso", "musculo", "raton", "ratones", "celula", "planta",
	// fr
	"microgravite", "apesanteur", "vol spatial", "station spatiale", "spationaute",
	"rayonnement", "souris", "cellule", "plante",
	// pt
	"microgravidade", "voo espacial", "estacao espacial", "radiacao", "osso", "camundongo",
	// de
	"mikrogravitation", "schwerelosigkeit", "raumfahrt", "raumstation", "astronautin",
	"strahlung", "knochen", "muskel", "pflanze", "zelle",
}

// Normalize lowercases text and folds diacritics so that every pattern can
// be written in plain ASCII.
func Normalize(text string) string {
	return helpers.CollapseWhitespace(helpers.FoldAccents(text))
}

// Classify runs greeting, capability and domain checks in that order and
// returns the first match, or Generic. A greeting that carries a domain term
// is not small talk.
func Classify(text string) Result {
	norm := Normalize(text)
	domain := mentionsDomain(norm)
	r := Result{Domain: domain, Normalized: norm}

	switch {
	case !domain && isGreeting(norm):
		r.Intent = Chitchat
	case isCapability(norm):
		r.Intent = Capability
	case domain:
		r.Intent = Domain
	default:
		r.Intent = Generic
	}
	return r
}

func isGreeting(norm string) bool {
	if norm == "" || len(strings.Fields(norm)) > maxGreetingWords {
		return false
	}
	return greeting.MatchString(norm)
}

func isCapability(norm string) bool {
	for _, p := range capabilityPatterns {
		if strings.Contains(norm, p) {
			return true
		}
	}
	return false
}

func mentionsDomain(norm string) bool {
	toks := helpers.Tokenize(norm)
	joined := " " + strings.Join(toks, " ")
	var set map[string]struct{}
	for _, term := range domainTerms {
		if utf8.RuneCountInString(term) > 4 {
			if strings.Contains(joined, " "+term) {
				return true
			}
			continue
		}
		if set == nil {
			set = make(map[string]struct{}, len(toks))
			for _, tok := range toks {
				set[tok] = struct{}{}
			}
		}
		if _, ok := set[term]; ok {
			return true
		}
	}
	return false
}
