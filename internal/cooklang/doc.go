// Package cooklang turns Cooklang recipe text into a recipe.Document.
//
// Supported markup:
//
//	---                        YAML front matter (title, tags, servings, aliases, ...)
//	>> key: value              metadata line
//	== Section ==              section heading
//	@salt  @olive oil{2%tbsp}(extra virgin)  @?chives{}  @salt{=1%tsp}
//	#pot  #baking sheet{}      cookware
//	~{25%minutes}  ~eggs{3%min} timers
//	-- line comment            [- block comment -]
//
// Steps are paragraphs separated by blank lines.
package cooklang
