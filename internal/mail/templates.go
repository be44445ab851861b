package mail

import "fmt"

func OTPJob(to, otp string) Job {
	return Job{
		To:      to,
		Subject: "Your SynapNote Verification Code",
		HTML: fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Welcome to SynapNote!</h2>
  <p>Thank you for signing up. Please use the following OTP to verify your account:</p>
  <div style="text-align: center; margin: 30px 0;">
    <span style="background-color: #007bff; color: white; padding: 15px 30px; font-size: 24px; font-weight: bold; letter-spacing: 2px; border-radius: 5px; display: inline-block;">%s</span>
  </div>
  <p><strong>This OTP will expire in 15 minutes.</strong></p>
  <p>If you didn't create this account, please ignore this email.</p>
  <p>Best regards,<br>The SynapNote Team</p>
</div>`, otp),
	}
}

func PasswordResetJob(to, name, resetLink string) Job {
	return Job{
		To:      to,
		Subject: "Reset Your SynapNote Password",
		HTML: fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Password Reset Request</h2>
  <p>Hello %s,</p>
  <p>We received a request to reset your password for your SynapNote account.</p>
  <div style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #007bff; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; display: inline-block;">Reset Password</a>
  </div>
  <p>If the button doesn't work, copy and paste this link into your browser:</p>
  <p style="background-color: #f5f5f5; padding: 10px; word-break: break-all;">%s</p>
  <p><strong>This link will expire in 1 hour for security reasons.</strong></p>
  <p>If you didn't request this password reset, please ignore this email.</p>
  <p>Best regards,<br>The SynapNote Team</p>
</div>`, name, resetLink, resetLink),
	}
}

func WelcomeJob(to, name string) Job {
	return Job{
		To:      to,
		Subject: "Welcome to SynapNote!",
		HTML: fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Welcome to SynapNote, %s!</h2>
  <p>Thank you for joining SynapNote. We're excited to have you on board!</p>
  <p>You can now start creating and organizing your intelligent notes.</p>
  <div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <h3>Getting Started:</h3>
    <ul>
      <li>Create your first note</li>
      <li>Organize notes with tags</li>
      <li>Use our smart search features</li>
    </ul>
  </div>
  <p>If you have any questions, feel free to reach out to our support team.</p>
  <p>Best regards,<br>The SynapNote Team</p>
</div>`, name),
	}
}
