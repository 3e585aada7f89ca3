package likelihood

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Sigmoid is the logistic link 1/(1+exp(-z))
func Sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

/*
Indicator maps a label to 0 if it is -1 and to 1 otherwise.
*/
func Indicator(label int) float64 {
	if label == -1 {
		return 0
	}
	return 1
}

/*
Likelihood returns the product over the samples of the probability the
logistic link assigns to each label: Sigmoid(x) for positive labels and
Sigmoid(-x) for the rest. It returns 1 for an empty set.
*/
func Likelihood(s *Samples) float64 {
	probs := make([]float64, s.Len())
	for i, x := range s.features {
		if s.labels[i] > 0 {
			probs[i] = Sigmoid(x)
		} else {
			probs[i] = Sigmoid(-x)
		}
	}
	return floats.Prod(probs)
}

/*
LogLikelihood returns the sum over the samples of x*(Indicator(y)-Sigmoid(x)),
the derivative of the log-likelihood of a logistic model with a single
unit coefficient. Unlike Likelihood, the probability does not depend on
the sign of the label.
*/
func LogLikelihood(s *Samples) float64 {
	if s.Len() == 0 {
		return 0
	}
	residuals := make([]float64, s.Len())
	for i, x := range s.features {
		residuals[i] = Indicator(s.labels[i]) - Sigmoid(x)
	}
	return floats.Dot(s.features, residuals)
}

/*
Term holds the contribution of a single sample to LogLikelihood.
*/
type Term struct {
	Feature     float64
	Label       int
	Indicator   float64
	Probability float64
	Value       float64
}

/*
Terms returns the contribution of every sample to LogLikelihood, in
order. Their values add up to LogLikelihood.
*/
func Terms(s *Samples) []Term {
	terms := make([]Term, 0, s.Len())
	for i, x := range s.features {
		ind := Indicator(s.labels[i])
		p := Sigmoid(x)
		terms = append(terms, Term{
			Feature:     x,
			Label:       s.labels[i],
			Indicator:   ind,
			Probability: p,
			Value:       x * (ind - p),
		})
	}
	return terms
}

/*
Score takes a slice of features and a slice of labels and returns their
Likelihood or a *LengthMismatchError.
*/
func Score(features []float64, labels []int) (float64, error) {
	s, err := NewSamples(features, labels)
	if err != nil {
		return 0, err
	}
	return Likelihood(s), nil
}

/*
ScoreLog takes a slice of features and a slice of labels and returns their
LogLikelihood or a *LengthMismatchError.
*/
func ScoreLog(features []float64, labels []int) (float64, error) {
	s, err := NewSamples(features, labels)
	if err != nil {
		return 0, err
	}
	return LogLikelihood(s), nil
}
