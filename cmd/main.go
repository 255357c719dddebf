package main

import (
	"os"

	"github.com/Jubbyperson/nutrition-chatbot/config"
	"github.com/Jubbyperson/nutrition-chatbot/routes"
	"github.com/Jubbyperson/nutrition-chatbot/utils"
)

func main() {
	config.LoadEnv()
	config.InitDB()
	utils.InitMailer()
	utils.InitS3()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r := routes.SetupRouter()
	r.Run(":" + port)
}
