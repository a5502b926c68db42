package chatbot

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Model holds the trained intent classifier: a TF-IDF vocabulary frozen at
// training time and a multinomial logistic regression over it. Training is
// fully deterministic, so two processes started from the same corpus always
// classify identically.
type Model struct {
	vocab   map[string]int
	idf     []float64
	classes []Intent
	weights *mat.Dense // classes x features
	bias    []float64
}

// TrainOptions control the gradient descent fit.
type TrainOptions struct {
	Iterations   int
	LearningRate float64
}

// DefaultTrainOptions matches the values the service ships with.
func DefaultTrainOptions() TrainOptions {
	return TrainOptions{Iterations: 500, LearningRate: 0.5}
}

// Train fits a softmax classifier over the labeled corpus. Weights start at
// zero and full-batch gradient descent runs for a fixed number of iterations,
// so there is no randomness anywhere in the pipeline. Intercepts stay pinned
// at the class log-priors: a query sharing no vocabulary with the corpus
// scores the prior distribution, which sits under the dispatch threshold.
func Train(examples []TrainingExample, opts TrainOptions) *Model {
	if opts.Iterations <= 0 {
		opts.Iterations = DefaultTrainOptions().Iterations
	}
	if opts.LearningRate <= 0 {
		opts.LearningRate = DefaultTrainOptions().LearningRate
	}

	n := len(examples)
	docs := make([][]string, n)
	df := map[string]int{}
	for i, ex := range examples {
		docs[i] = tokenize(ex.Utterance)
		seen := map[string]bool{}
		for _, t := range docs[i] {
			if !seen[t] {
				seen[t] = true
				df[t]++
			}
		}
	}

	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	vocab := make(map[string]int, len(terms))
	for i, t := range terms {
		vocab[t] = i
	}

	idf := make([]float64, len(terms))
	for i, t := range terms {
		idf[i] = math.Log(float64(1+n)/float64(1+df[t])) + 1
	}

	classSet := map[Intent]bool{}
	for _, ex := range examples {
		classSet[ex.Intent] = true
	}
	classes := make([]Intent, 0, len(classSet))
	for c := range classSet {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })
	classIdx := make(map[Intent]int, len(classes))
	for i, c := range classes {
		classIdx[c] = i
	}

	d := len(terms)
	k := len(classes)
	x := mat.NewDense(n, d, nil)
	y := mat.NewDense(n, k, nil)
	for i, ex := range examples {
		row := vectorize(docs[i], vocab, idf)
		x.SetRow(i, row)
		y.Set(i, classIdx[ex.Intent], 1)
	}

	weights := mat.NewDense(k, d, nil)
	bias := make([]float64, k)
	for _, ex := range examples {
		bias[classIdx[ex.Intent]]++
	}
	for c := range bias {
		bias[c] = math.Log(bias[c] / float64(n))
	}

	logits := mat.NewDense(n, k, nil)
	grad := mat.NewDense(k, d, nil)
	step := opts.LearningRate / float64(n)

	for iter := 0; iter < opts.Iterations; iter++ {
		logits.Mul(x, weights.T())
		for i := 0; i < n; i++ {
			row := logits.RawRowView(i)
			for c := 0; c < k; c++ {
				row[c] += bias[c]
			}
			softmaxInPlace(row)
			for c := 0; c < k; c++ {
				row[c] -= y.At(i, c)
			}
		}
		// logits now holds P - Y; gradient of the cross entropy loss.
		grad.Mul(logits.T(), x)
		grad.Scale(step, grad)
		weights.Sub(weights, grad)
	}

	return &Model{vocab: vocab, idf: idf, classes: classes, weights: weights, bias: bias}
}

// Classify scores the query against every intent and returns the winner with
// its softmax probability. Queries with no known terms fall through to the
// intercepts and come back at the prior probabilities.
func (m *Model) Classify(query string) Result {
	x := mat.NewVecDense(len(m.idf), vectorize(tokenize(query), m.vocab, m.idf))
	scores := mat.NewVecDense(len(m.classes), nil)
	scores.MulVec(m.weights, x)
	probs := make([]float64, len(m.classes))
	for c := range probs {
		probs[c] = scores.AtVec(c) + m.bias[c]
	}
	softmaxInPlace(probs)

	best := 0
	for c := 1; c < len(probs); c++ {
		if probs[c] > probs[best] {
			best = c
		}
	}
	return Result{Intent: m.classes[best], Confidence: probs[best]}
}

// Classes returns the intents the model can emit, in score order.
func (m *Model) Classes() []Intent {
	out := make([]Intent, len(m.classes))
	copy(out, m.classes)
	return out
}

// vectorize builds an L2-normalized TF-IDF row for one tokenized document.
// Terms outside the frozen vocabulary are ignored.
func vectorize(terms []string, vocab map[string]int, idf []float64) []float64 {
	row := make([]float64, len(idf))
	for _, t := range terms {
		if i, ok := vocab[t]; ok {
			row[i] += idf[i]
		}
	}
	var norm float64
	for _, v := range row {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range row {
			row[i] /= norm
		}
	}
	return row
}

func softmaxInPlace(v []float64) {
	maxv := v[0]
	for _, x := range v[1:] {
		if x > maxv {
			maxv = x
		}
	}
	var sum float64
	for i, x := range v {
		v[i] = math.Exp(x - maxv)
		sum += v[i]
	}
	for i := range v {
		v[i] /= sum
	}
}
