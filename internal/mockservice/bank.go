package mockservice

import (
	"math"
	"sort"
)

type bankOption struct {
	text  string
	trait string
}

type bankQuestion struct {
	text     string
	category string
	options  []bankOption
}

type course struct {
	name        string
	description string
	traits      []string
	minimumGWA  float64
	strand      string
}

var questionBank = []bankQuestion{
	{"Which weekend activity sounds most fun?", "interests", []bankOption{
		{"Solving a tricky puzzle", "Analytical"},
		{"Painting or sketching", "Creative"},
		{"Volunteering at a community event", "Social"},
		{"Fixing something around the house", "Practical"},
	}},
	{"In a group project you usually...", "work-style", []bankOption{
		{"Organize the plan and timeline", "Enterprising"},
		{"Research the background", "Investigative"},
		{"Design the presentation", "Creative"},
		{"Keep everyone motivated", "Social"},
	}},
	{"Which subject do you look forward to?", "academics", []bankOption{
		{"Mathematics", "Analytical"},
		{"Science", "Investigative"},
		{"Arts", "Creative"},
		{"Economics", "Enterprising"},
	}},
	{"What kind of problem do you enjoy most?", "interests", []bankOption{
		{"One with a single correct answer", "Analytical"},
		{"One that needs hands-on building", "Practical"},
		{"One about people and feelings", "Social"},
		{"One that needs a new idea", "Creative"},
	}},
	{"Pick a summer job.", "work-style", []bankOption{
		{"Lab assistant", "Investigative"},
		{"Store supervisor", "Enterprising"},
		{"Camp counselor", "Social"},
		{"Construction helper", "Practical"},
	}},
	{"How do you prefer to learn something new?", "learning", []bankOption{
		{"Reading and taking notes", "Investigative"},
		{"Trying it out myself", "Practical"},
		{"Discussing with others", "Social"},
		{"Making diagrams or sketches", "Creative"},
	}},
	{"Which achievement would make you proudest?", "values", []bankOption{
		{"Starting my own business", "Enterprising"},
		{"Publishing a discovery", "Investigative"},
		{"Helping someone recover", "Social"},
		{"Winning a design award", "Creative"},
	}},
	{"Which tool would you rather master?", "interests", []bankOption{
		{"Spreadsheet software", "Analytical"},
		{"Power tools", "Practical"},
		{"A musical instrument", "Creative"},
		{"Public speaking", "Enterprising"},
	}},
}

var catalog = []course{
	{"BS Computer Science", "Software, algorithms and computing systems.", []string{"Analytical", "Investigative"}, 85, "STEM"},
	{"BS Civil Engineering", "Design and construction of infrastructure.", []string{"Practical", "Analytical"}, 85, "STEM"},
	{"BS Psychology", "Human behavior and mental processes.", []string{"Social", "Investigative"}, 83, "HUMSS"},
	{"BS Nursing", "Patient care and health promotion.", []string{"Social", "Practical"}, 85, "STEM"},
	{"BS Business Administration", "Management, marketing and operations.", []string{"Enterprising", "Social"}, 80, "ABM"},
	{"BS Accountancy", "Financial reporting, audit and taxation.", []string{"Analytical", "Enterprising"}, 85, "ABM"},
	{"BS Architecture", "Design of buildings and spaces.", []string{"Creative", "Practical"}, 85, "STEM"},
	{"BFA Fine Arts", "Visual arts practice and theory.", []string{"Creative"}, 80, "Arts and Design"},
}

type rankedCourse struct {
	course
	score   float64
	matched map[string]int
}

// rank scores every course against the trait counts and sorts by score.
func rank(traits map[string]int, answered int) []rankedCourse {
	out := make([]rankedCourse, 0, len(catalog))
	for _, c := range catalog {
		rc := rankedCourse{course: c, matched: map[string]int{}}
		hits := 0
		for _, t := range c.traits {
			if n := traits[t]; n > 0 {
				rc.matched[t] = n
				hits += n
			}
		}
		if answered > 0 {
			rc.score = math.Round(40 + 60*float64(hits)/float64(answered))
		} else {
			rc.score = 50
		}
		out = append(out, rc)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })
	return out
}
