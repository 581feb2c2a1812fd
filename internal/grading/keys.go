package grading

// The answer keys below cover the fifteen readings of the course, lessons 1
// through 6. Each exercise is a short mix of true/false, multiple-choice and
// fill-in-the-blank questions; the comparator per field picks the matching
// normalization.

func exact(key, expected string) Field {
	return Field{Key: key, Expected: expected, Compare: CompareExact}
}

func boolean(key, expected string) Field {
	return Field{Key: key, Expected: expected, Compare: CompareBoolean}
}

func fold(key, expected string) Field {
	return Field{Key: key, Expected: expected, Compare: CompareFold}
}

var registry = map[int]ExerciseKey{
	// Lesson 1 - Getting Acquainted
	1: {Fields: []Field{ // Meet the Students: match each name to a paragraph
		exact("emma", "1"),
		exact("carlos", "2"),
		exact("fatima", "3"),
		exact("liam", "4"),
		exact("sofia", "5"),
	}},
	2: {Fields: []Field{ // A Letter from the Dean
		boolean("q1", "true"),
		boolean("q2", "false"),
		boolean("q3", "false"),
		boolean("q4", "true"),
		boolean("q5", "true"),
		boolean("q6", "false"),
	}},
	3: {Fields: []Field{ // First Day on Campus
		exact("q1", "b"),
		exact("q2", "a"),
		exact("q3", "d"),
		exact("q4", "c"),
		exact("q5", "b"),
	}},

	// Lesson 2 - Campus Life
	4: {Fields: []Field{ // The Student Union
		boolean("q1", "false"),
		boolean("q2", "true"),
		boolean("q3", "true"),
		boolean("q4", "false"),
		boolean("q5", "true"),
	}},
	5: {Fields: []Field{ // Finding Your Way Around
		exact("q1", "2"),
		exact("q2", "4"),
		exact("q3", "1"),
		exact("q4", "3"),
	}},
	6: {Fields: []Field{ // A Night at the Library
		fold("blank1", "LIBRARY"),
		fold("blank2", "CATALOGUE"),
		fold("blank3", "LOAN"),
		fold("blank4", "DEADLINE"),
		fold("blank5", "FINE"),
	}},

	// Lesson 3 - Science and Technology
	7: {Fields: []Field{ // The Rise of Renewable Energy
		exact("q1", "c"),
		exact("q2", "a"),
		exact("q3", "b"),
		exact("q4", "d"),
		exact("q5", "a"),
		exact("q6", "c"),
	}},
	8: {Fields: []Field{ // Machines That Learn
		boolean("q1", "true"),
		boolean("q2", "true"),
		boolean("q3", "false"),
		boolean("q4", "false"),
		boolean("q5", "true"),
		boolean("q6", "false"),
		boolean("q7", "true"),
	}},
	9: {Fields: []Field{ // Inside the Laboratory
		fold("blank1", "HYPOTHESIS"),
		fold("blank2", "EXPERIMENT"),
		fold("blank3", "SAMPLE"),
		fold("blank4", "RESULTS"),
	}},

	// Lesson 4 - Culture and Travel
	10: {Fields: []Field{ // Festivals Around the World
		boolean("q1", "false"),
		boolean("q2", "true"),
		boolean("q3", "true"),
		boolean("q4", "true"),
		boolean("q5", "false"),
	}},
	11: {Fields: []Field{ // A Journey Along the Silk Road
		exact("q1", "b"),
		exact("q2", "d"),
		exact("q3", "a"),
		exact("q4", "c"),
		exact("q5", "d"),
	}},
	12: {Fields: []Field{ // Postcards from Samarkand
		fold("blank1", "BAZAAR"),
		fold("blank2", "MOSQUE"),
		fold("blank3", "CARAVAN"),
		fold("blank4", "SOUVENIR"),
		fold("blank5", "JOURNEY"),
	}},

	// Lesson 5 - Work and Careers
	13: {Fields: []Field{ // Writing a Winning CV
		exact("q1", "a"),
		exact("q2", "c"),
		exact("q3", "b"),
		exact("q4", "b"),
		exact("q5", "d"),
		exact("q6", "a"),
	}},
	14: {Fields: []Field{ // The Job Interview
		boolean("q1", "true"),
		boolean("q2", "false"),
		boolean("q3", "true"),
		boolean("q4", "true"),
		boolean("q5", "false"),
		boolean("q6", "true"),
	}},

	// Lesson 6 - Looking Back
	15: {Fields: []Field{ // The Road Ahead: course review
		boolean("q1", "true"),
		boolean("q2", "false"),
		exact("q3", "c"),
		exact("q4", "a"),
		fold("blank1", "COMPREHENSION"),
		fold("blank2", "VOCABULARY"),
	}},
}
