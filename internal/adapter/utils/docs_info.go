// @title           Document QA API
// @version         1.0
// @description     This API handles document ingestion and asynchronous question answering over uploaded documents.
// @termsOfService  http://swagger.io/terms/

// @contact.name    API Support
// @contact.url
// @contact.email   ank.github@gmail.com

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package utils

//run redis
//docker run -p 6379:6379 -d redis

//docker run
//docker run -p 6333:6333 -p 6334:6334 -v vectorDBData:/qddrant/storage qdrant/qdrant

//swagger init
//swag init -g cmd/api/main.go --parseDependency --parseInternal --dir ./ --output ./cmd/api/docs
