package email

// Email templates using HTML

const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #2563eb, #1d4ed8); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #ffffff; padding: 30px; border: 1px solid #e5e7eb; border-top: none; }
        .footer { background: #f9fafb; padding: 20px; text-align: center; font-size: 12px; color: #6b7280; border: 1px solid #e5e7eb; border-top: none; border-radius: 0 0 10px 10px; }
        .info-box { background: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0; }
        .info-row { display: flex; justify-content: space-between; padding: 8px 0; border-bottom: 1px solid #e5e7eb; }
        .info-row:last-child { border-bottom: none; }
        .info-label { color: #6b7280; }
        .info-value { font-weight: 600; }
        .total-box { background: #2563eb; color: white; padding: 20px; border-radius: 8px; margin: 20px 0; text-align: center; }
        .total-amount { font-size: 32px; font-weight: bold; }
    </style>
</head>
<body>
    <div class="header">
        <h1>PayVault</h1>
        <p style="margin: 5px 0 0 0; opacity: 0.9;">Payment Receipt</p>
    </div>
    <div class="content">
        <h2>Thank you for your payment</h2>
        <p>Your payment was processed successfully. Here are the details:</p>

        <div class="info-box">
            <div class="info-row">
                <span class="info-label">Receipt ID</span>
                <span class="info-value">{{.PaymentID}}</span>
            </div>
            <div class="info-row">
                <span class="info-label">Date</span>
                <span class="info-value">{{.Date}}</span>
            </div>
            {{if .Description}}
            <div class="info-row">
                <span class="info-label">Description</span>
                <span class="info-value">{{.Description}}</span>
            </div>
            {{end}}
        </div>

        <div class="total-box">
            <p style="margin: 0 0 5px 0; opacity: 0.9;">Amount Paid</p>
            <div class="total-amount">{{.Currency}} {{.Amount}}</div>
        </div>

        <p>Keep this receipt for your records.</p>
    </div>
    <div class="footer">
        <p>&copy; 2026 PayVault. All rights reserved.</p>
        <p>This is an automated message. Please do not reply to this email.</p>
    </div>
</body>
</html>
`

const welcomeTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #2563eb, #1d4ed8); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #ffffff; padding: 30px; border: 1px solid #e5e7eb; border-top: none; }
        .footer { background: #f9fafb; padding: 20px; text-align: center; font-size: 12px; color: #6b7280; border: 1px solid #e5e7eb; border-top: none; border-radius: 0 0 10px 10px; }
        .button { display: inline-block; background: #2563eb; color: white; padding: 12px 30px; text-decoration: none; border-radius: 6px; margin: 20px 0; }
        .features { margin: 20px 0; }
        .feature { padding: 10px 0; border-bottom: 1px solid #e5e7eb; }
        .feature:last-child { border-bottom: none; }
    </style>
</head>
<body>
    <div class="header">
        <h1>PayVault</h1>
        <p style="margin: 5px 0 0 0; opacity: 0.9;">Saved Cards &amp; Payments</p>
    </div>
    <div class="content">
        <h2>Welcome, {{.UserName}}!</h2>
        <p>Thank you for creating a PayVault account.</p>

        <div class="features">
            <h3>What you can do:</h3>
            <div class="feature">Save cards securely for later use</div>
            <div class="feature">Charge a saved card in one click</div>
            <div class="feature">Make one-time payments</div>
            <div class="feature">Get a receipt for every payment</div>
        </div>

        <p style="text-align: center;">
            <a href="{{.BaseURL}}/dashboard" class="button">Get Started</a>
        </p>

        <p>If you have any questions, our support team is here to help.</p>
    </div>
    <div class="footer">
        <p>&copy; 2026 PayVault. All rights reserved.</p>
        <p>This is an automated message. Please do not reply to this email.</p>
    </div>
</body>
</html>
`
