package actions

// ParamType is the JSON schema type of a parameter.
type ParamType string

const (
	TypeString      ParamType = "string"
	TypeInteger     ParamType = "integer"
	TypeStringArray ParamType = "string_array"
)

// Param describes one action argument.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Enum        []string
}

// Declaration describes one action to the model.
type Declaration struct {
	Name        string
	Description string
	Params      []Param
}

// Required lists the names of the required parameters.
func (d Declaration) Required() []string {
	var out []string
	for _, p := range d.Params {
		if p.Required {
			out = append(out, p.Name)
		}
	}
	return out
}

// Declarations returns every action in the set, in a stable order.
func Declarations() []Declaration {
	return []Declaration{
		{
			Name:        NameSaveGenres,
			Description: "Save the anime genres the user says they like.",
			Params: []Param{
				{Name: "genres", Type: TypeStringArray, Description: "List of genres the user likes.", Required: true},
			},
		},
		{
			Name:        NameAddToWatchlist,
			Description: "Add an anime to the watchlist.",
			Params: []Param{
				{Name: "anime_title", Type: TypeString, Description: "The title of the anime to add to the watchlist.", Required: true},
			},
		},
		{
			Name:        NameUpdateEpisodes,
			Description: "Set how many episodes of a watchlist anime the user has watched.",
			Params: []Param{
				{Name: "anime_title", Type: TypeString, Description: "The title as it appears on the watchlist.", Required: true},
				{Name: "episodes", Type: TypeInteger, Description: "Number of episodes watched.", Required: true},
			},
		},
		{
			Name:        NameListWatchlist,
			Description: "List the anime on the user's watchlist with their progress.",
		},
		{
			Name:        NameAddToReadlist,
			Description: "Add a manga to the user's readlist.",
			Params: []Param{
				{Name: "manga_title", Type: TypeString, Description: "The title of the manga to add.", Required: true},
			},
		},
		{
			Name:        NameWatchAnime,
			Description: "Start watching an anime in the terminal player.",
			Params: []Param{
				{Name: "anime_title", Type: TypeString, Description: "The title of the anime to watch.", Required: true},
			},
		},
		{
			Name:        NameOpenWebSearch,
			Description: "Open a web search in the user's browser for an anime, a manga or a light novel.",
			Params: []Param{
				{Name: "query", Type: TypeString, Description: "The title to search for.", Required: true},
				{Name: "kind", Type: TypeString, Description: "What to search for.", Enum: []string{"anime", "manga", "novel"}},
			},
		},
		{
			Name:        NameQuit,
			Description: "End the chat session with the anime assistant.",
		},
	}
}
