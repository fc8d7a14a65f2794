package main

import (
	"github.com/gin-gonic/gin"
	"plate-plan.backend/internal/interfaces/http/handlers"
)

type routeDeps struct {
	authHandler             *handlers.AuthHandler
	profileHandler          *handlers.ProfileHandler
	plannerHandler          *handlers.PlannerHandler
	authMiddleware          gin.HandlerFunc
	verifiedEmailMiddleware gin.HandlerFunc
	registerLimiter         gin.HandlerFunc
	loginLimiter            gin.HandlerFunc
	resendLimiter           gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public unless noted)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.registerLimiter, d.authHandler.Register)
			auth.POST("/login", d.loginLimiter, d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.Refresh)
			auth.POST("/verify-email", d.authHandler.VerifyEmail)
			auth.POST("/logout", d.authMiddleware, d.authHandler.Logout)
			auth.POST("/resend-verification", d.authMiddleware, d.resendLimiter, d.authHandler.ResendVerification)
			auth.GET("/verification-status", d.authMiddleware, d.authHandler.VerificationStatus)
		}

		// Profile routes (protected)
		profile := v1.Group("/profile")
		profile.Use(d.authMiddleware)
		{
			profile.GET("", d.profileHandler.Get)
			profile.PUT("", d.profileHandler.Update)
			profile.PUT("/location", d.profileHandler.UpdateLocation)
		}

		// Planner routes (protected)
		profiles := v1.Group("/profiles")
		profiles.Use(d.authMiddleware)
		{
			profiles.POST("/:id/trigger-meal-plan", d.verifiedEmailMiddleware, d.plannerHandler.TriggerMealPlan)
			profiles.POST("/:id/trigger-scrape", d.plannerHandler.TriggerScrape)
		}

		// Task status (protected)
		v1.GET("/tasks/:id", d.authMiddleware, d.plannerHandler.GetTask)
	}
}
