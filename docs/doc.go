// Package docs provides generated OpenAPI documentation.
//
// Papi Chispa Tarot API
//
//	@title			Papi Chispa Tarot API
//	@version		1.0
//	@description	Tarot readings with narratives and illustrations in Papi Chispa's voice.
//
//	@contact.name	API Support
//	@contact.url	https://github.com/vitea/chispa
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8000
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g doc.go -d .,../internal/server/endpoints -o . --outputTypes go --parseDependency --parseInternal
