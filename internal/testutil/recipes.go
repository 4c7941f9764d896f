package testutil

// Recipe texts shared by tests across packages.
const (
	TomatoSoup = `---
title: Tomato Soup
servings: 4
tags: [vegan, soup]
aliases: [passata soup]
---
Chop @tomato{800%g} and @onion{1}(diced).
Simmer in a #pot{} for ~{20%minutes} with @olive oil{2%tbsp} and @salt{=1%tsp}.
`

	Bread = `>> servings: 1

Mix @flour{500%g}, @water{350%ml} and @salt{10%g}.
`

	Pancakes = `---
title: Pancakes
servings: 2
tags: [breakfast]
aliases: [flapjacks]
---
Whisk @eggs{2}, @milk{300%ml} and @flour{150%g} in a #bowl{}.
`
)
