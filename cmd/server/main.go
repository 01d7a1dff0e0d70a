// @title        News portal API
// @version      1.0
// @description  News, documents, courses and their administration.
// @BasePath     /
package main

import "newsportal/internal/app"

func main() {
	app.Run()
}
