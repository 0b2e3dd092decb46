package service

import "amfit/coach-app/internal/domain"

// builtInExercises is seeded into the exercise collection on start-up.
// Slugs are stable: workout entries reference them.
var builtInExercises = []domain.Exercise{
	{
		Slug:        "supino-reto",
		Name:        "Flat bench press",
		Description: "Barbell chest exercise",
		MuscleGroup: "chest",
		VideoURL:    "https://www.youtube.com/embed/gRVjAtPip0Y",
		Instructions: []string{
			"Lie on the bench with your feet planted on the floor",
			"Grip the bar slightly wider than shoulder width",
			"Lower the bar under control to your chest",
			"Press back to the starting position",
		},
		DefaultSets: 4,
		DefaultReps: "8-12",
	},
	{
		Slug:        "supino-inclinado",
		Name:        "Incline bench press",
		Description: "Upper chest exercise",
		MuscleGroup: "chest",
		VideoURL:    "https://www.youtube.com/embed/DbFgADa2IwE",
		Instructions: []string{
			"Set the bench to 30-45 degrees",
			"Lie back and plant your feet",
			"Grip the bar and lower it under control",
			"Press back up focusing on the upper chest",
		},
		DefaultSets: 3,
		DefaultReps: "10-15",
	},
	{
		Slug:        "agachamento",
		Name:        "Squat",
		Description: "Fundamental leg exercise",
		MuscleGroup: "legs",
		VideoURL:    "https://www.youtube.com/embed/Dy28eq2PjcM",
		Instructions: []string{
			"Stand with feet shoulder-width apart",
			"Sit back as if into a chair",
			"Keep the chest up and knees aligned",
			"Drive through the heels back to standing",
		},
		DefaultSets: 4,
		DefaultReps: "12-15",
	},
	{
		Slug:        "deadlift",
		Name:        "Deadlift",
		Description: "Full posterior chain exercise",
		MuscleGroup: "back",
		VideoURL:    "https://www.youtube.com/embed/ytGaGIn3SjE",
		Instructions: []string{
			"Set your feet hip-width apart",
			"Grip the bar with a double overhand grip",
			"Keep your back straight",
			"Lift by pushing the floor away with your feet",
		},
		DefaultSets: 4,
		DefaultReps: "6-8",
	},
	{
		Slug:        "puxada-frontal",
		Name:        "Lat pulldown",
		Description: "Latissimus dorsi exercise",
		MuscleGroup: "back",
		VideoURL:    "https://www.youtube.com/embed/CAwf7n6Luuc",
		Instructions: []string{
			"Sit at the machine with thighs secured",
			"Take a wide grip on the bar",
			"Pull down to chest height",
			"Control the return",
		},
		DefaultSets: 4,
		DefaultReps: "8-12",
	},
	{
		Slug:        "remada-sentada",
		Name:        "Seated cable row",
		Description: "Mid-back exercise",
		MuscleGroup: "back",
		VideoURL:    "https://www.youtube.com/embed/GZbfZ033f74",
		Instructions: []string{
			"Sit with your feet on the platform",
			"Hold the handle with an upright posture",
			"Pull toward your abdomen",
			"Squeeze the shoulder blades together",
		},
		DefaultSets: 3,
		DefaultReps: "10-15",
	},
	{
		Slug:        "rosca-direta",
		Name:        "Biceps curl",
		Description: "Biceps exercise",
		MuscleGroup: "biceps",
		VideoURL:    "https://www.youtube.com/embed/ykJmrZ5v0Oo",
		Instructions: []string{
			"Stand holding dumbbells",
			"Keep elbows tucked to your sides",
			"Curl the weights contracting the biceps",
			"Lower under control",
		},
		DefaultSets: 3,
		DefaultReps: "12-15",
	},
	{
		Slug:        "triceps-testa",
		Name:        "Skull crusher",
		Description: "Isolated triceps exercise",
		MuscleGroup: "triceps",
		VideoURL:    "https://www.youtube.com/embed/d_KZxkY_0cM",
		Instructions: []string{
			"Lie on the bench with dumbbells or a bar",
			"Keep the elbows fixed",
			"Lower to just above the forehead",
			"Extend focusing on the triceps",
		},
		DefaultSets: 3,
		DefaultReps: "12-15",
	},
	{
		Slug:        "desenvolvimento-ombros",
		Name:        "Shoulder press",
		Description: "Deltoid exercise",
		MuscleGroup: "shoulders",
		VideoURL:    "https://www.youtube.com/embed/qEwKCR5JCog",
		Instructions: []string{
			"Sit with your back supported",
			"Hold dumbbells at shoulder height",
			"Press up until the arms are extended",
			"Lower under control",
		},
		DefaultSets: 3,
		DefaultReps: "10-12",
	},
	{
		Slug:        "abdominal-tradicional",
		Name:        "Crunch",
		Description: "Basic abdominal exercise",
		MuscleGroup: "abs",
		VideoURL:    "https://www.youtube.com/embed/jDwoBqPH0jk",
		Instructions: []string{
			"Lie down with knees bent",
			"Hands behind the head without pulling the neck",
			"Contract the abs and lift the torso",
			"Lower under control",
		},
		DefaultSets: 3,
		DefaultReps: "15-20",
	},
}
