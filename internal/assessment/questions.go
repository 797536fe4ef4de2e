package assessment

import (
	"math/rand/v2"
	"sort"
)

// Question is a multiple-choice assessment item.
type Question struct {
	Topic       string   `json:"topic"`
	Text        string   `json:"question"`
	Options     []string `json:"options"`
	Correct     int      `json:"correct"`
	Explanation string   `json:"explanation"`
}

// PublicQuestion is a Question with the answer key and explanation removed, safe to hand to a quiz taker.
type PublicQuestion struct {
	Topic   string   `json:"topic"`
	Text    string   `json:"question"`
	Options []string `json:"options"`
}

// Review is the graded view of one answered question, revealed only after scoring.
type Review struct {
	Question    string `json:"question"`
	Selected    int    `json:"selected"`
	Correct     int    `json:"correct"`
	IsCorrect   bool   `json:"is_correct"`
	Explanation string `json:"explanation,omitempty"`
}

// DefaultQuestionCount is the number of questions drawn per assessment run.
const DefaultQuestionCount = 5

var bank = map[string][]Question{
	"Python Fundamentals": {
		{Text: "What is the output of: print(len({1, 2, 2, 3, 3, 3}))", Options: []string{"3", "6", "Error", "Undefined"}, Correct: 0,
			Explanation: "Sets remove duplicates, so {1,2,2,3,3,3} becomes {1,2,3} with len=3"},
		{Text: "Which of these is a mutable data type in Python?", Options: []string{"Tuple", "String", "List", "Integer"}, Correct: 2,
			Explanation: "Lists are mutable; tuples, strings, and integers are immutable"},
		{Text: "What does *args do in a function definition?", Options: []string{"Stores keyword arguments", "Stores multiple positional arguments", "Stores named arguments", "None"}, Correct: 1,
			Explanation: "*args allows a function to accept variable number of positional arguments"},
		{Text: "What is the difference between == and 'is'?", Options: []string{"No difference", "== checks equality, is checks identity", "is checks equality", "They are opposite"}, Correct: 1,
			Explanation: "== compares values, is compares object identity (memory address)"},
		{Text: "What will be the output? x = [1,2,3]; x.append([4,5]); print(len(x))", Options: []string{"4", "5", "Error", "6"}, Correct: 0,
			Explanation: "append adds one element (the list [4,5]), so length becomes 4"},
	},
	"SQL Basics": {
		{Text: "What does SQL stand for?", Options: []string{"Structured Query Language", "Simple Query Language", "Standard Query Language", "System Query Language"}, Correct: 0,
			Explanation: "SQL stands for Structured Query Language"},
		{Text: "Which SQL clause filters records after GROUP BY?", Options: []string{"WHERE", "HAVING", "FILTER", "GROUP"}, Correct: 1,
			Explanation: "WHERE filters before grouping, HAVING filters after GROUP BY"},
		{Text: "What is a PRIMARY KEY?", Options: []string{"First column", "Unique identifier for each row", "Main table", "Foreign key"}, Correct: 1,
			Explanation: "PRIMARY KEY uniquely identifies each record in a table"},
		{Text: "What does a JOIN do?", Options: []string{"Combines data from multiple tables", "Joins strings", "Links to external database", "Creates backup"}, Correct: 0,
			Explanation: "JOIN combines columns from two or more tables based on a condition"},
		{Text: "What keyword prevents duplicate rows in results?", Options: []string{"UNIQUE", "DISTINCT", "DIFFERENT", "REMOVE"}, Correct: 1,
			Explanation: "DISTINCT removes duplicate rows from query results"},
	},
	"Data Analysis": {
		{Text: "What does EDA stand for?", Options: []string{"Exploratory Data Analysis", "Experimental Data Algorithm", "External Data Access", "Electronic Data Arrangement"}, Correct: 0,
			Explanation: "EDA is Exploratory Data Analysis"},
		{Text: "Which is NOT a measure of central tendency?", Options: []string{"Mean", "Median", "Mode", "Range"}, Correct: 3,
			Explanation: "Range is a measure of dispersion, not central tendency"},
		{Text: "What does a correlation coefficient of -0.8 indicate?", Options: []string{"Strong positive correlation", "Weak negative correlation", "Strong negative correlation", "No correlation"}, Correct: 2,
			Explanation: "A coefficient near -1 indicates strong negative correlation"},
		{Text: "What is the purpose of normalization?", Options: []string{"Delete data", "Scale features to similar range", "Remove duplicates", "Convert format"}, Correct: 1,
			Explanation: "Normalization scales features to a similar range for better ML performance"},
		{Text: "What percentage of data should typically be in training set?", Options: []string{"50%", "70%", "90%", "100%"}, Correct: 1,
			Explanation: "Common practice is 70-80% for training, 20-30% for testing"},
	},
	"Machine Learning": {
		{Text: "What is overfitting?", Options: []string{"Model too simple", "Model learns training data too well", "Model has too many parameters", "Both B and C"}, Correct: 3,
			Explanation: "Overfitting occurs when model is too complex and learns noise; typically has too many parameters"},
		{Text: "Which metric is best for imbalanced datasets?", Options: []string{"Accuracy", "Precision", "F1-Score", "MAE"}, Correct: 2,
			Explanation: "F1-Score is better for imbalanced data as it balances precision and recall"},
		{Text: "What does cross-validation do?", Options: []string{"Tests on different data splits", "Validates across countries", "Checks model complexity", "Verifies features"}, Correct: 0,
			Explanation: "Cross-validation evaluates model performance across multiple data splits"},
		{Text: "Which is a supervised learning algorithm?", Options: []string{"K-Means", "PCA", "Random Forest", "DBSCAN"}, Correct: 2,
			Explanation: "Random Forest is supervised; K-Means and DBSCAN are unsupervised"},
		{Text: "What is feature engineering?", Options: []string{"Building ML model", "Creating new features from raw data", "Selecting algorithms", "Tuning hyperparameters"}, Correct: 1,
			Explanation: "Feature engineering is creating meaningful features from raw data"},
	},
}

// Topics returns the available assessment topics in alphabetical order.
func Topics() []string {
	topics := make([]string, 0, len(bank))
	for t := range bank {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	return topics
}

// HasTopic reports whether topic exists in the question bank.
func HasTopic(topic string) bool {
	_, ok := bank[topic]
	return ok
}

// GetAssessment draws up to n questions for topic in random order and returns them
// alongside their answer key. An unknown topic yields empty slices.
// A nil rng uses the package-level source.
func GetAssessment(topic string, n int, rng *rand.Rand) ([]PublicQuestion, []int) {
	questions, ok := bank[topic]
	if !ok || n <= 0 {
		return []PublicQuestion{}, []int{}
	}
	n = min(n, len(questions))

	var order []int
	if rng != nil {
		order = rng.Perm(len(questions))
	} else {
		order = rand.Perm(len(questions))
	}

	public := make([]PublicQuestion, 0, n)
	key := make([]int, 0, n)
	for _, idx := range order[:n] {
		q := questions[idx]
		public = append(public, PublicQuestion{
			Topic:   topic,
			Text:    q.Text,
			Options: append([]string(nil), q.Options...),
		})
		key = append(key, q.Correct)
	}
	return public, key
}

// lookup returns the bank entries for texts within topic. Unknown texts get a
// zero Question with Correct set to -1 so they can never score.
func lookup(topic string, texts []string) []Question {
	byText := make(map[string]Question, len(bank[topic]))
	for _, q := range bank[topic] {
		byText[q.Text] = q
	}
	out := make([]Question, len(texts))
	for i, t := range texts {
		q, ok := byText[t]
		if !ok {
			q = Question{Text: t, Correct: -1}
		}
		q.Topic = topic
		out[i] = q
	}
	return out
}

// AnswerKey returns the correct indices for the given question texts within topic.
// Unknown texts map to -1.
func AnswerKey(topic string, texts []string) []int {
	questions := lookup(topic, texts)
	key := make([]int, len(questions))
	for i, q := range questions {
		key[i] = q.Correct
	}
	return key
}

// ReviewAnswers pairs each answer with its question's correct option and explanation.
func ReviewAnswers(topic string, texts []string, answers []int) ([]Review, error) {
	if len(texts) != len(answers) {
		return nil, ErrAnswerCountMismatch
	}
	questions := lookup(topic, texts)
	out := make([]Review, len(questions))
	for i, q := range questions {
		out[i] = Review{
			Question:    q.Text,
			Selected:    answers[i],
			Correct:     q.Correct,
			IsCorrect:   q.Correct >= 0 && answers[i] == q.Correct,
			Explanation: q.Explanation,
		}
	}
	return out, nil
}
