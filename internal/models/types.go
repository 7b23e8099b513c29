package models

import "sort"

// BreedMap maps a breed name to its sub-breed names. It is fetched once per
// run from the catalog API and never mutated afterwards.
type BreedMap map[string][]string

// Breeds returns the breed names in sorted order. The catalog API lists
// breeds alphabetically; sorting keeps expansion order deterministic.
func (m BreedMap) Breeds() []string {
	breeds := make([]string, 0, len(m))
	for breed := range m {
		breeds = append(breeds, breed)
	}
	sort.Strings(breeds)
	return breeds
}

// TaskCount returns the number of image tasks the map expands to: one per
// sub-breed, or one for the bare breed when it has no sub-breeds.
func (m BreedMap) TaskCount() int {
	total := 0
	for _, subBreeds := range m {
		if len(subBreeds) > 0 {
			total += len(subBreeds)
		} else {
			total++
		}
	}
	return total
}

// ImageTask is one breed/sub-breed leaf with its resolved random image URL.
type ImageTask struct {
	Breed    string
	SubBreed string
	ImageURL string
	FullName string
}

func NewImageTask(breed, subBreed, imageURL string) ImageTask {
	fullName := breed
	if subBreed != "" {
		fullName = breed + "_" + subBreed
	}
	return ImageTask{
		Breed:    breed,
		SubBreed: subBreed,
		ImageURL: imageURL,
		FullName: fullName,
	}
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
	Command   string `json:"command"`
}
