package discovery

import "strings"

// Kind of a file found while walking a model home.
type Kind int

const (
	Other Kind = iota
	Training
	Evaluation
)

func (k Kind) String() string {
	switch k {
	case Training:
		return "training"
	case Evaluation:
		return "evaluation"
	default:
		return "other"
	}
}

const (
	TrainingSuffix   = ".sptrain"
	EvaluationSuffix = ".speval"
)

// Classifier tells which kind of descriptor a file is, from its base name.
type Classifier interface {
	Classify(name string) Kind
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(name string) Kind

func (f ClassifierFunc) Classify(name string) Kind {
	return f(name)
}

// BySuffix classifies files by name suffix.
//
// When a name matches both suffixes, which happens only if one suffix ends with the other
// (e.g. ".json" and ".eval.json" for "x.eval.json"), the longer one wins.
func BySuffix(training string, evaluation string) Classifier {
	return ClassifierFunc(func(name string) Kind {
		t := training != "" && strings.HasSuffix(name, training)
		e := evaluation != "" && strings.HasSuffix(name, evaluation)
		switch {
		case t && e:
			if len(training) >= len(evaluation) {
				return Training
			}
			return Evaluation
		case t:
			return Training
		case e:
			return Evaluation
		default:
			return Other
		}
	})
}

// DefaultClassifier classifies "*.sptrain" as training and "*.speval" as evaluation descriptors.
var DefaultClassifier = BySuffix(TrainingSuffix, EvaluationSuffix)
